// Package role manages the roles users can hold.
//
// Roles are identified by a unique name. The user service attaches roles by
// name and falls back to a configured default role, so the default must be
// present; EnsureRoles seeds the configured names at startup.
//
//	repo, _ := role.NewRoleRepository(persistence, pool)
//	service := role.NewRoleService(repo)
//	_, err := service.EnsureRoles(ctx, []string{"ADMINISTRADOR", "PACIENTE"})
package role
