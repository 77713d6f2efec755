// Package result provides the lab result ledger.
//
// A result belongs to a user and a lab. The user id is opaque and never
// verified. The lab id must name an existing lab whenever a result is
// created or updated, but nothing stops the lab from being deleted later:
// results keep their lab id and report a null lab name from then on.
//
//	labs, _ := lab.NewLabRepository(persistence, pool)
//	results, _ := result.NewResultRepository(persistence, pool)
//	service := result.NewResultService(results, labs)
package result
