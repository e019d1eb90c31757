// Package policy centralizes the permission rules for mutating blogs and
// comments. Every mutating endpoint consults these predicates instead of
// re-checking ownership inline.
package policy

import "inkwell/internal/models"

// CanEditBlog reports whether the user may edit the blog: the author or any
// staff member.
func CanEditBlog(user *models.User, blog *models.Blog) bool {
	if user == nil || blog == nil {
		return false
	}
	return user.ID == blog.UserID || user.IsStaff
}

// CanDeleteBlog uses the same rule as editing.
func CanDeleteBlog(user *models.User, blog *models.Blog) bool {
	return CanEditBlog(user, blog)
}

// CanDeleteComment is staff-only. Comment authors cannot delete their own
// comments; this asymmetry with the blog rules is intentional.
func CanDeleteComment(user *models.User) bool {
	return user != nil && user.IsStaff
}
