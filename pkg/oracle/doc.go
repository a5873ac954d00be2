// Package oracle is the Q&A assistant for oxalate questions: a thin chat
// client over a completion endpoint plus a service that gates questions
// through the usage engine's oracle allowance (10/month free, 40/day
// premium).
package oracle
