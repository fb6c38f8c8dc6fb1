// Package annotations defines cobra command annotation keys used by obsail.
//
// AnnotationStep ties a command to the provisioning step it runs, so the
// command tree can be checked against the closed step set:
//
//	cmd.Annotations = map[string]string{
//	    annotations.AnnotationStep: string(orchestrator.StepStart),
//	}
//
// AnnotationPermission marks commands that change hosts or clusters:
//
//	cmd.Annotations = map[string]string{
//	    annotations.AnnotationPermission: annotations.PermissionWrite,
//	}
package annotations
