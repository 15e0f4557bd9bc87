// Package ats estimates how an Applicant Tracking System would score a resume against a job profile.
//
// Scoring is a pure function of the resume text, the job profile and a list of excluded terms.
// It performs no I/O, holds no mutable package state and is safe for concurrent use.
// The result combines four sub-scores with fixed budgets:
//
//	keyword match  70
//	formatting     10
//	length         10
//	sections       10
package ats
