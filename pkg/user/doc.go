// Package user provides user accounts, role assignment and password login.
//
// Passwords are stored as bcrypt hashes only. A user holds a set of roles
// from the role package and always presents at least one role name: when
// the set is empty the configured default role ("PACIENTE" unless changed)
// is reported as the primary role.
//
// # Basic Usage
//
//	roles := role.NewRoleService(roleRepo)
//	service := user.NewUserService(userRepo, roles,
//		user.WithDefaultRole("PACIENTE"),
//		user.WithEmptyRoleFallback(false),
//	)
//
//	u, err := service.CreateUser(ctx, user.UserParams{
//		Email:    "ana@example.com",
//		Password: "secret1",
//		FullName: "Ana López",
//		Role:     "MEDICO",
//	})
//
//	// Login never tells callers whether the email exists
//	u, err = service.Login(ctx, "ana@example.com", "secret1")
//	if errors.IsCode(err, errors.ErrCodeInvalidCredentials) {
//		// wrong email or wrong password
//	}
package user
