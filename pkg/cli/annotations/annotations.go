package annotations

const (
	// AnnotationStep names the provisioning step a command runs.
	AnnotationStep = "obsail.step"

	// AnnotationPermission marks commands that change hosts or clusters.
	// Set to "write" for commands that modify state.
	AnnotationPermission = "obsail.permission"
)

// PermissionWrite is the AnnotationPermission value of state-changing commands.
const PermissionWrite = "write"
