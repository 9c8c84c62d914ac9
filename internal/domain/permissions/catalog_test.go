package permissions

import "testing"

func TestAdmin_HasEveryPermission(t *testing.T) {
	for _, p := range All() {
		if !Has(RoleAdmin, p) {
			t.Fatalf("admin missing permission %s", p)
		}
	}
}

func TestStaffAndUser_NeverHoldManagePermissions(t *testing.T) {
	for _, role := range []Role{RoleStaff, RoleUser} {
		if Has(role, ManageUsers) {
			t.Fatalf("%s must not hold %s", role, ManageUsers)
		}
		if Has(role, ManageSystemSettings) {
			t.Fatalf("%s must not hold %s", role, ManageSystemSettings)
		}
	}
}

func TestUser_OnlyReadPermissions(t *testing.T) {
	got := For(RoleUser)
	for p := range got {
		if len(p) < 5 || p[:5] != "read_" {
			t.Fatalf("user holds non-read permission %s", p)
		}
	}
	if !Has(RoleUser, ReadAnimals) || !Has(RoleUser, ReadOrganizations) {
		t.Fatalf("user should hold read permissions")
	}
}

func TestStaff_DeleteBoundaries(t *testing.T) {
	if Has(RoleStaff, DeleteOrganizations) {
		t.Fatalf("staff must not delete organizations")
	}
	if Has(RoleStaff, DeleteClients) {
		t.Fatalf("staff must not delete clients")
	}
	if !Has(RoleStaff, DeleteInvoices) || !Has(RoleStaff, DeleteAnimals) {
		t.Fatalf("staff should delete invoices/animals")
	}
	if !Has(RoleStaff, ReadOrganizations) {
		t.Fatalf("staff should read organizations")
	}
}

func TestUnknownRole_FailsClosed(t *testing.T) {
	if got := For(Role("superadmin")); len(got) != 0 {
		t.Fatalf("unknown role should have empty set, got %d perms", len(got))
	}
	if Has(Role(""), ReadClients) {
		t.Fatalf("empty role should have no permissions")
	}
}

func TestParseRole(t *testing.T) {
	if ParseRole(" Admin ") != RoleAdmin {
		t.Fatalf("expected admin")
	}
	if ParseRole("root") != Role("") {
		t.Fatalf("unknown role should parse to empty")
	}
}
