package facts

import "testing"

const (
	ownerID    = "10000000000000000"
	friendID   = "20000000000000000"
	strangerID = "30000000000000000"
	modRoleID  = "40000000000000000"
)

func TestParsePermissionsDefaults(t *testing.T) {
	perms := ParsePermissions([]string{"just a fact"}, ownerID)
	owner := User{ID: ownerID}
	stranger := User{ID: strangerID, Username: "stranger"}

	if !perms.CanEdit(owner) {
		t.Error("owner must always be able to edit")
	}
	if perms.CanEdit(stranger) {
		t.Error("edit defaults to owner only")
	}
	if !perms.CanView(stranger) || !perms.CanUse(stranger) {
		t.Error("view and use default to everyone")
	}
}

func TestParsePermissionsLists(t *testing.T) {
	perms := ParsePermissions([]string{
		"$edit " + friendID,
		"$view @everyone",
		"$use " + modRoleID + ", TrustedName",
		"$blacklist " + strangerID,
	}, ownerID)

	friend := User{ID: friendID, Username: "friend"}
	if !perms.CanEdit(friend) {
		t.Error("listed friend should edit")
	}
	if perms.CanEdit(User{ID: strangerID}) {
		t.Error("unlisted user should not edit")
	}

	mod := User{ID: "50000000000000000", Roles: []string{modRoleID}}
	if !perms.CanUse(mod) {
		t.Error("role-ID entry should match role list")
	}
	named := User{ID: "60000000000000000", Username: "trustedname"}
	if !perms.CanUse(named) {
		t.Error("username entry should match case-insensitively")
	}
	if perms.CanUse(User{ID: strangerID, Username: "stranger"}) {
		t.Error("blacklisted user should not use")
	}
}

func TestOwnerNeverBlacklisted(t *testing.T) {
	perms := ParsePermissions([]string{"$blacklist " + ownerID}, ownerID)
	if !perms.CanUse(User{ID: ownerID}) {
		t.Error("owner must pass despite blacklist entry")
	}
}

func TestParsePermissionsLastWins(t *testing.T) {
	perms := ParsePermissions([]string{
		"$edit @everyone",
		"$edit " + friendID,
	}, ownerID)
	if perms.Edit.Everyone {
		t.Error("later $edit should replace the everyone sentinel")
	}
}

func TestMatchEntry(t *testing.T) {
	u := User{ID: friendID, Username: "Friend", Roles: []string{modRoleID}}
	tests := []struct {
		entry string
		want  bool
	}{
		{friendID, true},
		{modRoleID, true},
		{strangerID, false},
		{"friend", true},
		{"FRIEND", true},
		{"enemy", false},
		// Too short to be a platform ID, so it is a username.
		{"12345", false},
	}
	for _, tt := range tests {
		if got := MatchEntry(tt.entry, u); got != tt.want {
			t.Errorf("MatchEntry(%q) = %v, want %v", tt.entry, got, tt.want)
		}
	}
}
