package permissions

// CheckDefinition describes a single policy action or gate for the admin
// interface, which renders the catalog when configuring route guards.
type CheckDefinition struct {
	Key         string `json:"key"`         // unique key, e.g. "gallery.update" or "view-gallery"
	Name        string `json:"name"`        // friendly name
	Description string `json:"description"` // what passing the check allows
}

// CheckGroupDefinition groups related checks
type CheckGroupDefinition struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Checks      []CheckDefinition `json:"checks"`
}

// DefinedCheckGroups holds all statically defined policy actions and gates
var DefinedCheckGroups = []CheckGroupDefinition{
	{
		Key:         ResourceUser,
		Name:        "User Management",
		Description: "Policy actions on user accounts.",
		Checks: []CheckDefinition{
			{Key: "user.viewAny", Name: "List Users", Description: "Allows listing user accounts (admin)."},
			{Key: "user.view", Name: "View User", Description: "Allows viewing a user (admin, or the user themselves)."},
			{Key: "user.create", Name: "Create User", Description: "Allows creating user accounts (admin)."},
			{Key: "user.update", Name: "Update User", Description: "Allows updating a user (admin, or the user themselves)."},
			{Key: "user.delete", Name: "Delete User", Description: "Allows deleting another user's account (admin, never self)."},
		},
	},
	{
		Key:         ResourceProfile,
		Name:        "Profile Management",
		Description: "Policy actions on user profiles.",
		Checks: []CheckDefinition{
			{Key: "profile.view", Name: "View Profile", Description: "Allows viewing any profile (all authenticated users)."},
			{Key: "profile.update", Name: "Update Profile", Description: "Allows updating a profile (admin, or its owner)."},
		},
	},
	{
		Key:         ResourceGroup,
		Name:        "Group Management",
		Description: "Policy actions on groups.",
		Checks: []CheckDefinition{
			{Key: "group.viewAny", Name: "List Groups", Description: "Allows listing groups (all authenticated users)."},
			{Key: "group.view", Name: "View Group", Description: "Allows viewing a group (all authenticated users)."},
			{Key: "group.create", Name: "Create Group", Description: "Allows creating groups (admin)."},
			{Key: "group.update", Name: "Update Group", Description: "Allows updating groups (admin)."},
			{Key: "group.delete", Name: "Delete Group", Description: "Allows deleting groups (admin)."},
		},
	},
	{
		Key:         ResourceGallery,
		Name:        "Gallery Management",
		Description: "Policy actions on galleries.",
		Checks: []CheckDefinition{
			{Key: "gallery.viewAny", Name: "List Galleries", Description: "Allows listing galleries for management (fotografo)."},
			{Key: "gallery.view", Name: "View Gallery", Description: "Allows viewing a gallery (fotografo, owner, or shared group member)."},
			{Key: "gallery.create", Name: "Create Gallery", Description: "Allows creating galleries (fotografo)."},
			{Key: "gallery.update", Name: "Update Gallery", Description: "Allows updating an owned gallery (fotografo owner)."},
			{Key: "gallery.delete", Name: "Delete Gallery", Description: "Allows deleting an owned gallery (fotografo owner)."},
			{Key: "gallery.manageGallery", Name: "Manage Gallery", Description: "Allows managing content of an owned gallery (fotografo owner)."},
		},
	},
	{
		Key:         ResourceImage,
		Name:        "Image Management",
		Description: "Policy actions on images.",
		Checks: []CheckDefinition{
			{Key: "image.view", Name: "View Image", Description: "Allows viewing an image, following its gallery's view rule."},
			{Key: "image.create", Name: "Upload Image", Description: "Allows uploading into an owned gallery (fotografo owner)."},
			{Key: "image.update", Name: "Update Image", Description: "Allows updating an image in an owned gallery (fotografo owner)."},
			{Key: "image.delete", Name: "Delete Image", Description: "Allows deleting an image from an owned gallery (fotografo owner)."},
		},
	},
	{
		Key:         "gates",
		Name:        "Gates",
		Description: "Named checks usable with or without a concrete resource.",
		Checks: []CheckDefinition{
			{Key: GateAdminOnly, Name: "Admin Only", Description: "Requires the admin role."},
			{Key: GateFotografoOnly, Name: "Fotografo Only", Description: "Requires the fotografo role."},
			{Key: GateEditProfile, Name: "Edit Profile", Description: "Own profile, or any profile for admins."},
			{Key: GateAccessGroup, Name: "Access Group", Description: "Member of the group, or admin; admin only without a group."},
			{Key: GateCreateGallery, Name: "Create Gallery", Description: "Requires the fotografo role."},
			{Key: GateManageGallery, Name: "Manage Gallery", Description: "Fotografo owning the gallery; role check alone without one."},
			{Key: GateManageImage, Name: "Manage Image", Description: "Fotografo owning the image's gallery; role check alone without one."},
			{Key: GateViewGallery, Name: "View Gallery", Description: "Public galleries for everyone, then fotografo, owner or group member."},
		},
	},
}
