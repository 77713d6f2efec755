// Package lab provides the laboratory catalog.
//
// A lab is a named laboratory with a server-assigned id. Names are unique
// across the catalog, a lab may be renamed to any name that is not already
// taken by another lab, and deleting a lab never looks at results that
// reference it.
//
// # Basic Usage
//
//	repo, err := lab.NewLabRepository(cfg.Service.PersistenceType, pool)
//	if err != nil {
//		return err
//	}
//	service := lab.NewLabService(repo)
//
//	created, err := service.CreateLab(ctx, "Central")
//	if errors.IsCode(err, errors.ErrCodeConflict) {
//		// a lab with that name already exists
//	}
//
// HTTP routes live in the api subpackage and are mounted at /api/labs.
package lab
