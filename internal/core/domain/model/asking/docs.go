// Package asking tracks client-communication work. An asking task moves through
// a fixed sequence of stages (ASKED, SHARED, VERIFIED, INFORMED_TEAM), keeps an
// append-only log of every recorded stage and is completed by an explicit action
// once the terminal stage is reached.
//
// Reaching INFORMED_TEAM does not complete a task:
//
//	_ = t.AdvanceStage(asking.InformedTeam, details, userID, now)
//	_ = t.Complete(userID, "client confirmed", now) // completedAt is set here
package asking
