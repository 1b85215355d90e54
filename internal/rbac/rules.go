package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"questions:view",
		"submission:create",
		"submission:view-own",
		"progress:view-own",
		"summary:view-own",
		"baseline:edit-own",
	},
	"teacher": {
		"course:create",
		"questions:view",
		"questions:edit",
		"submission:view-all",
		"progress:view-all",
		"summary:view-all",
	},
	"admin": {
		"*", // everything
	},
}
