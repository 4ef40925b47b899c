package services

import (
	"fmt"

	"github.com/SpitiusK/SurveyBot-sub014/models"
)

// ValidateSurveyFlow statically analyzes a survey's question graph before
// publication. It builds a directed graph over question ids — an edge runs
// from question A to question B when A's default next-step or any of A's
// options' next-steps is "go to B" — and reports:
//
//   - dangling references: a go-to targeting an id that is not a member of
//     the survey's question set;
//   - cycles: detected by a depth-first traversal keeping a recursion
//     stack, reported with the path from the entry point to the repeated
//     question.
//
// Sequential fallback edges are not part of the graph; order indices only
// increase, so they can never close a cycle.
//
// The pass is pure: it never fails, never mutates the survey, and is safe
// to re-run any number of times. A survey with zero questions, or whose
// every path terminates in end-of-survey or falls off the end of the
// sequential order, is valid.
func ValidateSurveyFlow(survey *models.Survey) models.FlowValidationResult {
	questionIDs := make(map[int64]bool, len(survey.Questions))
	for i := range survey.Questions {
		questionIDs[survey.Questions[i].ID] = true
	}

	var errs []string
	edges := make(map[int64][]int64, len(survey.Questions))

	// Deterministic traversal: walk questions by order index.
	for _, q := range survey.QuestionsInOrder() {
		for _, target := range explicitTargets(q) {
			if !questionIDs[target.id] {
				errs = append(errs, fmt.Sprintf("question %d: %s points at nonexistent question %d", q.ID, target.source, target.id))
				continue
			}
			edges[q.ID] = append(edges[q.ID], target.id)
		}
	}

	cyclePath := findCycle(survey, edges)
	if cyclePath != nil {
		errs = append(errs, fmt.Sprintf("question flow contains a cycle: %v", cyclePath))
	}

	return models.FlowValidationResult{
		Valid:     len(errs) == 0,
		Errors:    errs,
		CyclePath: cyclePath,
	}
}

type flowEdge struct {
	id     int64
	source string
}

// explicitTargets collects every go-to-question determinant reachable from
// the question: its default next-step plus each option's next-step.
func explicitTargets(q *models.Question) []flowEdge {
	var targets []flowEdge
	if q.DefaultNextStep != nil {
		if id, ok := q.DefaultNextStep.QuestionID(); ok {
			targets = append(targets, flowEdge{id: id, source: "default next-step"})
		}
	}
	for i := range q.Options {
		opt := &q.Options[i]
		if opt.NextStep == nil {
			continue
		}
		if id, ok := opt.NextStep.QuestionID(); ok {
			targets = append(targets, flowEdge{id: id, source: fmt.Sprintf("option %q", opt.Text)})
		}
	}
	return targets
}

// findCycle runs a DFS over the explicit edges keeping a recursion stack.
// Revisiting a question that is still on the stack proves a cycle; the
// returned path runs from the first occurrence of the repeated question to
// its repetition, e.g. [1 2 3 1]. Returns nil when the graph is acyclic.
func findCycle(survey *models.Survey, edges map[int64][]int64) []int64 {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make(map[int64]int, len(survey.Questions))
	var stack []int64

	var visit func(id int64) []int64
	visit = func(id int64) []int64 {
		state[id] = onStack
		stack = append(stack, id)
		for _, next := range edges[id] {
			switch state[next] {
			case onStack:
				// Cycle closed: slice the stack from the repeated node.
				for i, sid := range stack {
					if sid == next {
						path := make([]int64, 0, len(stack)-i+1)
						path = append(path, stack[i:]...)
						return append(path, next)
					}
				}
			case unvisited:
				if path := visit(next); path != nil {
					return path
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for _, q := range survey.QuestionsInOrder() {
		if state[q.ID] == unvisited {
			if path := visit(q.ID); path != nil {
				return path
			}
		}
	}
	return nil
}
