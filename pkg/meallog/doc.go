// Package meallog records meals against a daily oxalate budget.
//
// Each logged meal stores the food, portion, and resulting oxalate amount
// under the day it was eaten. The Tracker gates logging through the usage
// engine's tracking allowance and reports the day's running total against a
// configurable daily limit (50mg by default, the common clinical guidance
// for a low-oxalate diet).
package meallog
