package scope

import (
	"testing"

	"warescan-service/internal/model"
)

func uintPtr(v uint) *uint { return &v }

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		want  ID
	}{
		{
			name:  "manager resolves to own id",
			actor: Actor{UserID: 7, Username: "boss", Role: model.RoleManager},
			want:  ID(7),
		},
		{
			name:  "sub-user resolves to manager id",
			actor: Actor{UserID: 12, Username: "clerk", Role: model.RoleSubUser, ManagerID: uintPtr(7)},
			want:  ID(7),
		},
		{
			name:  "sub-user without manager falls to sentinel",
			actor: Actor{UserID: 12, Role: model.RoleSubUser},
			want:  Unknown,
		},
		{
			name:  "sub-user with zero manager falls to sentinel",
			actor: Actor{UserID: 12, Role: model.RoleSubUser, ManagerID: uintPtr(0)},
			want:  Unknown,
		},
		{
			name:  "manager without id falls to sentinel",
			actor: Actor{Role: model.RoleManager},
			want:  Unknown,
		},
		{
			name:  "unknown role falls to sentinel",
			actor: Actor{UserID: 3, Role: model.Role("intruder")},
			want:  Unknown,
		},
		{
			name:  "zero actor falls to sentinel",
			actor: Actor{},
			want:  Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.actor); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManagerAndSubUserShareScope(t *testing.T) {
	manager := Actor{UserID: 42, Role: model.RoleManager}
	employee := Actor{UserID: 99, Role: model.RoleSubUser, ManagerID: uintPtr(42)}

	if Resolve(manager) != Resolve(employee) {
		t.Errorf("manager scope %v and sub-user scope %v should match",
			Resolve(manager), Resolve(employee))
	}
}

func TestPrivilegesByRole(t *testing.T) {
	mgr := Actor{UserID: 1, Role: model.RoleManager}.Privileges()
	sub := Actor{UserID: 2, Role: model.RoleSubUser, ManagerID: uintPtr(1)}.Privileges()

	if !mgr.Has(model.PrivAdminCorrect) || !mgr.Has(model.PrivResetData) {
		t.Error("manager should hold correction and reset privileges")
	}
	if sub.Has(model.PrivAdminCorrect) {
		t.Error("sub-user must not hold the revert privilege")
	}
	if sub.Has(model.PrivResetData) {
		t.Error("sub-user must not hold the reset privilege")
	}
	if !sub.Has(model.PrivReceive | model.PrivRelease | model.PrivTransfer) {
		t.Error("sub-user should hold the day-to-day warehouse privileges")
	}
	if model.Role("ghost").Privileges() != 0 {
		t.Error("unknown role must resolve to an empty privilege set")
	}
}
