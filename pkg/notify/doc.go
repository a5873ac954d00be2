// Package notify delivers user-facing messages from the quota and billing
// layers without binding them to any particular presentation.
//
// A Notification carries a title, a body, and at most one action the user
// can take (for example "Restore" after an already-purchased error). The
// Notifier implementation decides how to present it: the embedding UI shows
// a toast or alert, SlogNotifier logs it, and Mailer sends purchase receipts
// and failure notices by email.
package notify
