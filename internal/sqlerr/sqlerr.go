// Package sqlerr translates PostgreSQL driver errors into client errors.
//
// SQLSTATE codes are mapped onto a small set of categories so callers can
// switch on them, and HandleError turns those categories into *errs.HTTPError
// values with stable codes such as GEAR_ALREADY_EXISTS.
package sqlerr
