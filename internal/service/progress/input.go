package progress

import (
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/lingua-cards/internal/domain"
)

const maxCardIDLength = 128

// SetLearnedInput marks one card as learned or not learned.
type SetLearnedInput struct {
	Lang    domain.Language
	Level   domain.Level
	CardID  string
	Learned bool
}

// Validate checks all fields and collects all errors. A card id must carry
// the <lang>_<level>_ prefix of the set it belongs to.
func (i SetLearnedInput) Validate() error {
	var errs domain.FieldErrors

	if !i.Lang.IsValid() {
		errs.Add("lang", "invalid language code")
	}
	if !i.Level.IsValid() {
		errs.Add("level", "invalid level")
	}

	id := strings.TrimSpace(i.CardID)
	switch {
	case id == "":
		errs.Add("card_id", "required")
	case len(id) > maxCardIDLength:
		errs.Add("card_id", "max 128 characters")
	case !strings.HasPrefix(id, domain.SetIDPrefix(domain.SetKey{Lang: i.Lang, Level: i.Level})):
		errs.Add("card_id", "does not belong to this set")
	}

	return errs.Err()
}

const maxSyncCards = 2000

// SyncInput replaces the learned cards of one set with the given ids.
type SyncInput struct {
	Lang    domain.Language
	Level   domain.Level
	Learned []string
}

// Validate checks the set and every card id.
func (i SyncInput) Validate() error {
	var errs domain.FieldErrors

	if !i.Lang.IsValid() {
		errs.Add("lang", "invalid language code")
	}
	if !i.Level.IsValid() {
		errs.Add("level", "invalid level")
	}
	if len(i.Learned) > maxSyncCards {
		errs.Add("learned", "max 2000 items")
	}
	if err := errs.Err(); err != nil {
		return err
	}

	for idx, id := range i.Learned {
		in := SetLearnedInput{Lang: i.Lang, Level: i.Level, CardID: id, Learned: true}
		if err := in.Validate(); err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				for _, fe := range ve.Errors {
					errs.Add(fmt.Sprintf("learned[%d]", idx), fe.Message)
				}
			}
		}
	}
	return errs.Err()
}
