package authority

// Permission is a fine-grained capability tag checked by route handlers.
type Permission string

const (
	PermApplicationsRead   Permission = "applications.read"
	PermApplicationsManage Permission = "applications.manage"
	PermHiresRead          Permission = "hires.read"
	PermHiresManage        Permission = "hires.manage"
	PermArticlesRead       Permission = "articles.read"
	PermArticlesWrite      Permission = "articles.write"
	PermArticlesPublish    Permission = "articles.publish"
	PermTagsManage         Permission = "tags.manage"
	PermSectorsManage      Permission = "sectors.manage"
	PermTranslationsManage Permission = "translations.manage"
	PermNewslettersRead    Permission = "newsletters.read"
	PermNewslettersSend    Permission = "newsletters.send"
	PermUsersRead          Permission = "users.read"
	PermUsersManage        Permission = "users.manage"
	PermRolesAssign        Permission = "roles.assign"
	PermSettingsManage     Permission = "settings.manage"
)

// AllPermissions is the full permission universe.
var AllPermissions = []Permission{
	PermApplicationsRead, PermApplicationsManage,
	PermHiresRead, PermHiresManage,
	PermArticlesRead, PermArticlesWrite, PermArticlesPublish,
	PermTagsManage, PermSectorsManage, PermTranslationsManage,
	PermNewslettersRead, PermNewslettersSend,
	PermUsersRead, PermUsersManage, PermRolesAssign,
	PermSettingsManage,
}

// RolePermissions holds the permissions granted directly to each role.
var RolePermissions = map[Role][]Permission{
	RoleViewer:      {PermArticlesRead},
	RoleConsultant:  {PermHiresRead},
	RoleHrAssistant: {PermApplicationsRead},
	RoleRecruiter:   {PermApplicationsManage, PermHiresRead},
	RoleContentEditor: {
		PermArticlesWrite, PermTagsManage, PermSectorsManage,
	},
	RoleHrManager: {PermApplicationsManage, PermHiresManage, PermUsersRead},
	RoleAdmin: {
		PermArticlesPublish, PermTranslationsManage,
		PermNewslettersRead, PermNewslettersSend,
		PermUsersManage, PermRolesAssign,
	},
	RoleSuperAdmin: {PermSettingsManage},
}

// InheritedPermissions holds the permissions each role receives from the
// lower-ranked roles it subsumes.
var InheritedPermissions = map[Role][]Permission{
	RoleViewer:      {},
	RoleConsultant:  {PermArticlesRead},
	RoleHrAssistant: {PermArticlesRead},
	RoleRecruiter:   {PermArticlesRead, PermApplicationsRead},
	RoleContentEditor: {
		PermArticlesRead,
	},
	RoleHrManager: {
		PermArticlesRead, PermApplicationsRead, PermHiresRead,
	},
	RoleAdmin: {
		PermArticlesRead, PermArticlesWrite,
		PermApplicationsRead, PermApplicationsManage,
		PermHiresRead, PermHiresManage,
		PermTagsManage, PermSectorsManage, PermUsersRead,
	},
	RoleSuperAdmin: {
		PermApplicationsRead, PermApplicationsManage,
		PermHiresRead, PermHiresManage,
		PermArticlesRead, PermArticlesWrite, PermArticlesPublish,
		PermTagsManage, PermSectorsManage, PermTranslationsManage,
		PermNewslettersRead, PermNewslettersSend,
		PermUsersRead, PermUsersManage, PermRolesAssign,
	},
}

// EffectivePermissions returns the deduplicated union of a role's direct and
// inherited permission sets. Permission sets are always derived, never stored.
func EffectivePermissions(role Role) []Permission {
	seen := map[Permission]bool{}
	perms := []Permission{}
	for _, p := range RolePermissions[role] {
		if !seen[p] {
			seen[p] = true
			perms = append(perms, p)
		}
	}
	for _, p := range InheritedPermissions[role] {
		if !seen[p] {
			seen[p] = true
			perms = append(perms, p)
		}
	}
	return perms
}
