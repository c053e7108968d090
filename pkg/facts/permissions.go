package facts

import "strings"

// User identifies a chat-platform member for permission checks.
type User struct {
	ID       string
	Username string
	Roles    []string
}

// Permissions is the access record assembled from a fact list's
// permission directives. Nil lists mean the directive was absent: edit
// defaults to owner-only, view and use default to everyone, blacklist
// defaults to nobody.
type Permissions struct {
	Owner     string
	Edit      *PermissionList
	View      *PermissionList
	Blacklist *PermissionList
	Use       *PermissionList
}

// ParsePermissions extracts the permission record from fact lines. The
// last occurrence of each directive wins; lines that are not permission
// directives are ignored. Conditional wrappers are honored structurally
// but their guards are not evaluated here.
func ParsePermissions(lines []string, owner string) *Permissions {
	perms := &Permissions{Owner: owner}
	for _, line := range lines {
		if IsComment(line) {
			continue
		}
		fact, err := Classify(line)
		if err != nil || fact.Directive != DirectivePermission {
			continue
		}
		list := fact.Permission.List
		switch fact.Permission.Kind {
		case PermissionEdit:
			perms.Edit = &list
		case PermissionView:
			perms.View = &list
		case PermissionBlacklist:
			perms.Blacklist = &list
		case PermissionUse:
			perms.Use = &list
		}
	}
	return perms
}

// CanEdit reports whether the user may modify the record. Absent an
// $edit directive only the owner may.
func (p *Permissions) CanEdit(u User) bool {
	if u.ID == p.Owner {
		return true
	}
	if p.Edit == nil {
		return false
	}
	return matchList(*p.Edit, u)
}

// CanView reports whether the user may see the record. Defaults to
// everyone.
func (p *Permissions) CanView(u User) bool {
	if u.ID == p.Owner {
		return true
	}
	if p.View == nil {
		return true
	}
	return matchList(*p.View, u)
}

// CanUse reports whether the user may interact with the record.
// Defaults to everyone, minus the blacklist. The owner is never
// blacklisted.
func (p *Permissions) CanUse(u User) bool {
	if u.ID == p.Owner {
		return true
	}
	if p.Blacklist != nil && matchList(*p.Blacklist, u) {
		return false
	}
	if p.Use == nil {
		return true
	}
	return matchList(*p.Use, u)
}

func matchList(list PermissionList, u User) bool {
	if list.Everyone {
		return true
	}
	for _, entry := range list.Entries {
		if MatchEntry(entry, u) {
			return true
		}
	}
	return false
}

// MatchEntry matches one permission-list entry against a user. A 17 to
// 19 digit entry is a platform ID, compared against the user's ID and
// role IDs; anything else is a username, compared case-insensitively.
func MatchEntry(entry string, u User) bool {
	if isSnowflake(entry) {
		if entry == u.ID {
			return true
		}
		for _, role := range u.Roles {
			if entry == role {
				return true
			}
		}
		return false
	}
	return strings.EqualFold(entry, u.Username)
}

func isSnowflake(s string) bool {
	if len(s) < 17 || len(s) > 19 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
