package services

import (
	"fmt"

	"tournaments/models"
)

// normalizeFormat подставляет значения по умолчанию и проверяет инварианты:
// numberOfGroups >= 0, maxTeamsPerGroup >= 1, известный тип.
func normalizeFormat(format *models.Format) error {
	// Полностью опущенный формат получает формат по умолчанию целиком.
	if *format == (models.Format{}) {
		*format = models.DefaultFormat()
		return nil
	}

	if format.Type == "" {
		format.Type = models.TypeRoundRobin
	}
	if format.MaxTeamsPerGroup == 0 {
		format.MaxTeamsPerGroup = DefaultMaxTeamsPerGroup
	}

	if format.NumberOfGroups < 0 {
		return fmt.Errorf("%w: numberOfGroups must not be negative", ErrInvalidFormat)
	}
	if format.MaxTeamsPerGroup < 1 {
		return fmt.Errorf("%w: maxTeamsPerGroup must be at least 1", ErrInvalidFormat)
	}

	switch format.Type {
	case models.TypeRoundRobin, models.TypeNFL:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidFormat, format.Type)
	}

	return nil
}

// DefaultMaxTeamsPerGroup применяется, когда клиент не прислал вместимость.
const DefaultMaxTeamsPerGroup = 16

// checkGroupCapacities проверяет, что ни одна группа документа не превышает
// вместимость формата.
func checkGroupCapacities(tournament *models.Tournament) error {
	for i := range tournament.Groups {
		if len(tournament.Groups[i].Teams) > tournament.Format.MaxTeamsPerGroup {
			return fmt.Errorf("%w: group %q", ErrGroupFull, tournament.Groups[i].Name)
		}
	}
	return nil
}
