package pipeline

import (
	"fmt"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/common"
)

var transitions = map[constants.ExtractState][]constants.ExtractState{
	constants.StateUnclassified: {constants.StateNativeChosen, constants.StateLLMChosen, constants.StateFailed},
	constants.StateNativeChosen: {constants.StateExtracted, constants.StateFailed},
	constants.StateLLMChosen:    {constants.StateExtracted, constants.StateFailed},
}

// Selection tracks which extractor a run picked and whether it finished. Forward only.
type Selection struct {
	state constants.ExtractState
}

func NewSelection() *Selection {
	return &Selection{state: constants.StateUnclassified}
}

func (s *Selection) State() constants.ExtractState { return s.state }

// To moves to next or returns an internal error if the move is not allowed.
func (s *Selection) To(next constants.ExtractState) error {
	for _, ok := range transitions[s.state] {
		if ok == next {
			s.state = next
			return nil
		}
	}
	return common.NewAppError(common.CodeInternal,
		fmt.Sprintf("invalid extract transition %s -> %s", s.state, next), common.ErrInternal)
}

// Fail moves to Failed unless the run already reached a terminal state.
func (s *Selection) Fail() {
	if !s.state.Terminal() {
		s.state = constants.StateFailed
	}
}
