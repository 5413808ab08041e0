package analyzer

import (
	"errors"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/card"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/domain"
	"github.com/tachoscope/tachoscope-backend/pkg/logger"
)

// ExtractDriverInfo reads the holder identity from the card. Each field is
// looked up on its own and left nil when absent. Returns nil only when the
// card carries no recognised generation.
func ExtractDriverInfo(c *card.Card, log *logger.Logger) *domain.DriverInfo {
	if c == nil || c.Generation == card.GenerationNone {
		return nil
	}
	if log == nil {
		log = logger.Nop()
	}

	info := &domain.DriverInfo{}

	if id := c.Identification; id != nil {
		if name := holderName(id); name != nil {
			info.LastName = cleanText(name.HolderSurname)
			info.FirstName = cleanText(name.HolderFirstNames)
		}

		if ci := id.CardIdentification; ci != nil {
			info.CardNumber = cleanText(ci.CardNumber)
			info.IssuingCountry = cleanText(ci.CardIssuingMemberState)
			info.IssueDate = calendarDate(ci.CardIssueDate, "card_issue_date", log)
			info.ExpiryDate = calendarDate(ci.CardExpiryDate, "card_expiry_date", log)
		}

		if holder := id.DriverCardHolderIdentification; holder != nil {
			info.BirthDate = calendarDate(holder.CardHolderBirthDate, "card_holder_birth_date", log)
		}
	}

	if lic := c.Licence; lic != nil {
		info.LicenseNumber = cleanText(lic.DrivingLicenceNumber)
	}

	return info
}

// holderName prefers the top-level name block, then the one nested in the
// driver holder identification.
func holderName(id *card.Identification) *card.HolderName {
	if id.CardHolderName != nil {
		return id.CardHolderName
	}
	if holder := id.DriverCardHolderIdentification; holder != nil {
		return holder.CardHolderName
	}
	return nil
}

func cleanText(t card.Text) *string {
	s := t.Clean()
	if s == "" {
		return nil
	}
	return &s
}

func calendarDate(ts card.Timestamp, field string, log *logger.Logger) *string {
	date, err := ts.Calendar()
	if err != nil {
		if !errors.Is(err, card.ErrNoDate) {
			log.Warn().Err(err).Str("field", field).Msg("unparsable card date, leaving empty")
		}
		return nil
	}
	return &date
}
