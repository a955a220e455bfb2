package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

func TestAdminOnlyDecisions(t *testing.T) {
	var p UserPolicy
	target := &domain.User{ID: "target"}

	for _, role := range domain.Roles() {
		actor := &domain.User{ID: "actor", Role: role}
		want := role == domain.RoleAdmin

		assert.Equal(t, want, p.CanViewAny(actor), "CanViewAny(%s)", role)
		assert.Equal(t, want, p.CanCreate(actor), "CanCreate(%s)", role)
		assert.Equal(t, want, p.CanDelete(actor, target), "CanDelete(%s)", role)
		assert.Equal(t, want, p.CanViewStats(actor), "CanViewStats(%s)", role)
	}
}

func TestCanUpdate(t *testing.T) {
	var p UserPolicy

	tests := []struct {
		name   string
		actor  *domain.User
		target *domain.User
		want   bool
	}{
		{"admin edits someone else", &domain.User{ID: "1", Role: domain.RoleAdmin}, &domain.User{ID: "2"}, true},
		{"admin edits self", &domain.User{ID: "1", Role: domain.RoleAdmin}, &domain.User{ID: "1"}, true},
		{"agent edits self", &domain.User{ID: "7", Role: domain.RoleAgent}, &domain.User{ID: "7", Role: domain.RoleAgent}, true},
		{"patient edits self", &domain.User{ID: "9", Role: domain.RolePatient}, &domain.User{ID: "9"}, true},
		{"superviseur edits someone else", &domain.User{ID: "3", Role: domain.RoleSuperviseur}, &domain.User{ID: "4"}, false},
		{"clinique edits someone else", &domain.User{ID: "5", Role: domain.RoleClinique}, &domain.User{ID: "6"}, false},
		{"empty ids never match", &domain.User{Role: domain.RoleAgent}, &domain.User{}, false},
		{"nil target", &domain.User{ID: "1", Role: domain.RoleAgent}, nil, false},
		{"nil actor", nil, &domain.User{ID: "1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanUpdate(tt.actor, tt.target))
		})
	}
}

func TestUnknownRoleIsDenied(t *testing.T) {
	var p UserPolicy
	actor := &domain.User{ID: "x", Role: domain.Role("root")}

	assert.False(t, p.CanViewAny(actor))
	assert.False(t, p.CanCreate(actor))
	assert.False(t, p.CanViewStats(actor))
	assert.False(t, p.CanUpdate(actor, &domain.User{ID: "y"}))
	assert.True(t, p.CanUpdate(actor, &domain.User{ID: "x"}))
}

func TestAllows(t *testing.T) {
	var p UserPolicy
	admin := &domain.User{ID: "1", Role: domain.RoleAdmin}
	agent := &domain.User{ID: "2", Role: domain.RoleAgent}

	for _, a := range []Action{ActionViewAny, ActionCreate, ActionUpdate, ActionDelete, ActionViewStats} {
		assert.True(t, p.Allows(a, admin, agent), "admin %s", a)
	}
	assert.False(t, p.Allows(ActionDelete, agent, agent))
	assert.True(t, p.Allows(ActionUpdate, agent, agent))
	assert.False(t, p.Allows(Action("impersonate"), admin, agent))
}

func TestNilActorIsDenied(t *testing.T) {
	var p UserPolicy
	assert.False(t, p.CanViewAny(nil))
	assert.False(t, p.CanCreate(nil))
	assert.False(t, p.CanDelete(nil, nil))
	assert.False(t, p.CanViewStats(nil))
}
