// Package scoring computes the composite stress score for one observation.
//
// Score is a pure function: the same observation always produces the same
// (score, high-stress) result, with no hidden state and no side effects, so
// it is testable without a database.
//
// The score is a weighted sum of four bounded factors:
// stress level (40%) + mood inversion (15%) + sleep deficit (20%) +
// environmental discomfort (25%), scaled to an integer in [0, 100].
// An observation is classified high-stress when score >= threshold
// (DefaultThreshold 70).
package scoring
