// Package billing queries month-to-date spend figures for the credit
// account from the cost analytics API.
//
// # Overview
//
// The governor consumes exactly two numbers per cycle: the cumulative
// spend since the start of the billing month and a recent credits/day
// rate. Everything else about the analytics API (its schema, auth, and
// retry policy) stays behind the SpendSource interface so the
// controller core never sees it.
package billing
