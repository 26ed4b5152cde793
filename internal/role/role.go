package role

import (
	"errors"

	roleDatamodel "github.com/barefootnomad/backend/internal/core/datamodel/role"
)

// Static role ids, seeded by the migrations.
const (
	Admin     int64 = 1
	Manager   int64 = 2
	Requester int64 = 3
	// Supplier accounts list shared accommodation and belong to no company.
	Supplier int64 = 4
)

var names = map[int64]string{
	Admin:     "admin",
	Manager:   "manager",
	Requester: "requester",
	Supplier:  "supplier",
}

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

var ErrNotFound = errors.New("role not found")

// IsApprover reports whether users with this role may approve requests.
func IsApprover(id int64) bool {
	return id == Admin || id == Manager
}

func Name(id int64) string {
	return names[id]
}

// Defaults lists the seeded reference rows.
func Defaults() []*Role {
	return []*Role{
		{ID: Admin, Name: names[Admin]},
		{ID: Manager, Name: names[Manager]},
		{ID: Requester, Name: names[Requester]},
		{ID: Supplier, Name: names[Supplier]},
	}
}

func ToDataModel(r *Role) *roleDatamodel.Role {
	return &roleDatamodel.Role{ID: r.ID, Name: r.Name}
}

func FromDataModel(r *roleDatamodel.Role) *Role {
	return &Role{ID: r.ID, Name: r.Name}
}

func FromDataModelSlice(roles []*roleDatamodel.Role) []*Role {
	result := make([]*Role, len(roles))
	for i, r := range roles {
		result[i] = FromDataModel(r)
	}
	return result
}
