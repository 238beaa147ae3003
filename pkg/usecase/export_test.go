package usecase

import "time"

// SetClock replaces the time source used for generations
func (uc *CharacterUseCase) SetClock(now func() time.Time) {
	uc.now = now
}
