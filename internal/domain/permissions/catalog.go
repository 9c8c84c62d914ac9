package permissions

import "strings"

// Role define los roles soportados.
// @Enum admin, staff, user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleUser  Role = "user"
)

// ParseRole normaliza un rol externo (token/header). Rol desconocido
// devuelve "" y el catálogo responde con set vacío (fail closed).
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleStaff:
		return RoleStaff
	case RoleUser:
		return RoleUser
	default:
		return ""
	}
}

// Permission es una capacidad atómica: una acción sobre una familia de recursos.
// Set cerrado: agregar un permiso es tocar este archivo, no un string en un handler.
type Permission string

type action string

const (
	actionRead   action = "read"
	actionCreate action = "create"
	actionUpdate action = "update"
	actionDelete action = "delete"
)

type family string

const (
	familyClients       family = "clients"
	familyAnimals       family = "animals"
	familyInvoices      family = "invoices"
	familyOrganizations family = "organizations"
	familyBlacklist     family = "blacklist"
	familyDocuments     family = "documents"
)

func perm(a action, f family) Permission {
	return Permission(string(a) + "_" + string(f))
}

// Permisos CRUD por familia.
var (
	ReadClients   = perm(actionRead, familyClients)
	CreateClients = perm(actionCreate, familyClients)
	UpdateClients = perm(actionUpdate, familyClients)
	DeleteClients = perm(actionDelete, familyClients)

	ReadAnimals   = perm(actionRead, familyAnimals)
	CreateAnimals = perm(actionCreate, familyAnimals)
	UpdateAnimals = perm(actionUpdate, familyAnimals)
	DeleteAnimals = perm(actionDelete, familyAnimals)

	ReadInvoices   = perm(actionRead, familyInvoices)
	CreateInvoices = perm(actionCreate, familyInvoices)
	UpdateInvoices = perm(actionUpdate, familyInvoices)
	DeleteInvoices = perm(actionDelete, familyInvoices)

	ReadOrganizations   = perm(actionRead, familyOrganizations)
	CreateOrganizations = perm(actionCreate, familyOrganizations)
	UpdateOrganizations = perm(actionUpdate, familyOrganizations)
	DeleteOrganizations = perm(actionDelete, familyOrganizations)

	ReadBlacklist   = perm(actionRead, familyBlacklist)
	CreateBlacklist = perm(actionCreate, familyBlacklist)
	UpdateBlacklist = perm(actionUpdate, familyBlacklist)
	DeleteBlacklist = perm(actionDelete, familyBlacklist)

	ReadDocuments   = perm(actionRead, familyDocuments)
	CreateDocuments = perm(actionCreate, familyDocuments)
	UpdateDocuments = perm(actionUpdate, familyDocuments)
	DeleteDocuments = perm(actionDelete, familyDocuments)
)

// Permisos administrativos (no pertenecen a ninguna familia CRUD).
const (
	ManageUsers          Permission = "manage_users"
	ManageSystemSettings Permission = "manage_system_settings"
)

var families = []family{
	familyClients,
	familyAnimals,
	familyInvoices,
	familyOrganizations,
	familyBlacklist,
	familyDocuments,
}

var actions = []action{actionRead, actionCreate, actionUpdate, actionDelete}

// universe se deriva de familias x acciones + administrativos.
// Importante: admin recibe esto completo por construcción; un permiso nuevo
// entra al universo y a admin sin tocar el catálogo.
var universe = func() []Permission {
	out := make([]Permission, 0, len(families)*len(actions)+2)
	for _, f := range families {
		for _, a := range actions {
			out = append(out, perm(a, f))
		}
	}
	out = append(out, ManageUsers, ManageSystemSettings)
	return out
}()

// All devuelve el universo completo de permisos (copia).
func All() []Permission {
	out := make([]Permission, len(universe))
	copy(out, universe)
	return out
}

// Set es membresía simple sobre permisos.
type Set map[Permission]struct{}

func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

func setOf(ps ...Permission) Set {
	s := make(Set, len(ps))
	for _, p := range ps {
		s[p] = struct{}{}
	}
	return s
}

// catalog es el mapeo fijo Role -> Set. Se arma una vez al iniciar el proceso;
// no hay API de mutación en runtime (eso queda para un redeploy, a propósito).
var catalog = map[Role]Set{
	RoleAdmin: setOf(universe...),
	RoleStaff: staffSet(),
	RoleUser:  userSet(),
}

// staff: lectura/creación/edición sobre todo, delete solo sobre
// animals, invoices, documents y blacklist. Nunca manage_*.
func staffSet() Set {
	s := Set{}
	for _, f := range families {
		s[perm(actionRead, f)] = struct{}{}
		s[perm(actionCreate, f)] = struct{}{}
		s[perm(actionUpdate, f)] = struct{}{}
	}
	for _, f := range []family{familyAnimals, familyInvoices, familyDocuments, familyBlacklist} {
		s[perm(actionDelete, f)] = struct{}{}
	}
	return s
}

// user: solo lectura.
func userSet() Set {
	s := Set{}
	for _, f := range families {
		s[perm(actionRead, f)] = struct{}{}
	}
	return s
}

// For devuelve el set de permisos del rol. Rol desconocido => set vacío,
// nunca panic: los callers tratan "sin permisos" como default seguro.
func For(role Role) Set {
	s, ok := catalog[role]
	if !ok {
		return Set{}
	}
	// el caller recibe una copia; el catálogo no se muta nunca
	out := make(Set, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}

// Has es el test de membresía puro que usa el guard.
func Has(role Role, p Permission) bool {
	s, ok := catalog[role]
	if !ok {
		return false
	}
	return s.Has(p)
}
