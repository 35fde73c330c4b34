package intent

// Label is a coarse classification of what the user is trying to do
// with one utterance.
type Label string

const (
	AnsweringQuestion    Label = "answering_question"
	RejectingRepetition  Label = "rejecting_repetition"
	ChangingTopic        Label = "changing_topic"
	SkipMoveOn           Label = "skip_move_on"
	ChitChat             Label = "chit_chat"
	RequestingResearch   Label = "requesting_research"
	ProvidingPartialInfo Label = "providing_partial_info"
	AskingClarification  Label = "asking_clarification"
)

// Labels lists every label in the fixed classification set, in the order
// presented to probabilistic backends.
func Labels() []Label {
	return []Label{
		AnsweringQuestion,
		RejectingRepetition,
		ChangingTopic,
		SkipMoveOn,
		ChitChat,
		RequestingResearch,
		ProvidingPartialInfo,
		AskingClarification,
	}
}

func isKnownLabel(s string) bool {
	for _, l := range Labels() {
		if string(l) == s {
			return true
		}
	}
	return false
}
