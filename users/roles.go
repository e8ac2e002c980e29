package users

// RoleType is the role tag stored on a user document. The set is open; roles
// missing from the permission table are granted nothing.
type RoleType string

const (
	RoleAdmin   RoleType = "admin"   // Full access to every section
	RoleJefe    RoleType = "jefe"    // Site supervisor
	RolePasante RoleType = "pasante" // Intern, read-mostly access
)

// Section is one area of the application gated by role.
type Section string

const (
	SectionObras        Section = "obras"
	SectionTrabajadores Section = "trabajadores"
	SectionInventario   Section = "inventario"
	SectionReportes     Section = "reportes"
	SectionDonaciones   Section = "donaciones"
	SectionSolicitudes  Section = "solicitudes"
	SectionUsuarios     Section = "usuarios"
)

// AllSections lists the sections in menu order.
var AllSections = []Section{
	SectionObras,
	SectionTrabajadores,
	SectionInventario,
	SectionReportes,
	SectionDonaciones,
	SectionSolicitudes,
	SectionUsuarios,
}

var sectionTitles = map[Section]string{
	SectionObras:        "Obras",
	SectionTrabajadores: "Trabajadores",
	SectionInventario:   "Inventario",
	SectionReportes:     "Reportes de avance",
	SectionDonaciones:   "Donaciones",
	SectionSolicitudes:  "Solicitudes",
	SectionUsuarios:     "Usuarios",
}

var rolePermissions = map[RoleType][]Section{
	RoleAdmin: AllSections,
	RoleJefe: {
		SectionObras,
		SectionTrabajadores,
		SectionInventario,
		SectionReportes,
		SectionSolicitudes,
	},
	RolePasante: {
		SectionInventario,
		SectionReportes,
	},
}

func (s Section) Title() string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return string(s)
}

// ParseSection returns the known section named s.
func ParseSection(s string) (Section, bool) {
	section := Section(s)
	_, ok := sectionTitles[section]
	return section, ok
}

// Sections returns the sections the role may access, in menu order.
func (r RoleType) Sections() []Section {
	allowed := rolePermissions[r]
	out := make([]Section, len(allowed))
	copy(out, allowed)
	return out
}

// Can reports whether the role may access the section.
func (r RoleType) Can(section Section) bool {
	for _, s := range rolePermissions[r] {
		if s == section {
			return true
		}
	}
	return false
}

// IsKnown reports whether the role appears in the permission table.
func (r RoleType) IsKnown() bool {
	_, ok := rolePermissions[r]
	return ok
}
