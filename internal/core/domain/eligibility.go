package domain

import "strings"

// Evaluate computes the screening verdict from the two qualifying answers.
// A negative answer to either question rejects the submission; everything
// else is pre-approved. This is the single source of truth for the initial
// status and for any admin re-evaluation, so both always agree.
func Evaluate(hasBusinessReg, hasClientBase string) PreRegStatus {
	if isNegative(hasBusinessReg) || isNegative(hasClientBase) {
		return PreRegRejected
	}
	return PreRegPreApproved
}

func isNegative(answer string) bool {
	a := strings.ToUpper(strings.TrimSpace(answer))
	return a == AnswerNo || a == "NÃO"
}
