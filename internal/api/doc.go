// Package api provides the point-of-sale HTTP API: the register catalog,
// Stripe Terminal checkout, payment logging and the MongoDB product and
// folder management routes.
package api
