package services

import (
	"github.com/SpitiusK/SurveyBot-sub014/models"
)

// ResolveNext computes where survey flow goes after a question has been
// answered. It is a pure function over its inputs; no state is read or
// written.
//
// Precedence, evaluated in order:
//  1. Single-choice: the option matching the selected label, if it carries
//     its own next-step.
//  2. Rating: the option at order index rating-1, if the question has
//     options configured and that option carries its own next-step.
//     Rating questions without options skip straight to step 3, which
//     keeps ratings defined before branching existed working unchanged.
//  3. The question's default next-step, if set.
//  4. Sequential order: the next question in the survey by ascending order
//     index, or end of survey if none exists.
//
// Multiple-choice, text, date and location answers always resolve through
// steps 3-4: a set of simultaneously selected options cannot unambiguously
// pick one branch.
//
// ResolveNext does not verify that a resolved question id exists in the
// survey; the flow validator performs that check before publication.
func ResolveNext(survey *models.Survey, question *models.Question, value models.AnswerValue) models.NextStep {
	if step, ok := optionBranch(question, value); ok {
		return step
	}
	if question.DefaultNextStep != nil {
		return *question.DefaultNextStep
	}
	if next := survey.QuestionAfter(question); next != nil {
		return models.MustGoToQuestion(next.ID)
	}
	return models.EndSurvey()
}

// optionBranch evaluates the per-option branching of single-choice and
// rating questions. The boolean is false when no option-level next-step
// applies and the caller should fall through to the question default.
func optionBranch(question *models.Question, value models.AnswerValue) (models.NextStep, bool) {
	switch question.Kind {
	case models.QuestionKindSingleChoice:
		answer, ok := value.(models.SingleChoiceAnswer)
		if !ok {
			return models.NextStep{}, false
		}
		opt := question.OptionByText(answer.Selected())
		if opt != nil && opt.NextStep != nil {
			return *opt.NextStep, true
		}
	case models.QuestionKindRating:
		if len(question.Options) == 0 {
			return models.NextStep{}, false
		}
		answer, ok := value.(models.RatingAnswer)
		if !ok {
			return models.NextStep{}, false
		}
		// Option order index r-1 corresponds to rating value r.
		opt := question.OptionByOrderIndex(answer.Rating() - 1)
		if opt != nil && opt.NextStep != nil {
			return *opt.NextStep, true
		}
	}
	return models.NextStep{}, false
}
