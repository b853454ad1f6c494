package repository

import (
	"errors"
	"fmt"

	"github.com/IrakliAvdulaj/trek-fleet-apply/entity"
)

var ErrNotEditable = errors.New("application can only be edited while pending")

type TransitionError struct {
	From, To entity.ApplicationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change application status from %s to %s", e.From, e.To)
}
