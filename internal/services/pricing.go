package services

// SessionPrice derives a session's total price from the mentor's hourly rate
// and the requested duration in minutes: round(hourlyRate * duration / 60),
// halves rounded up. A mentor without a set rate yields a free session.
func SessionPrice(hourlyRate int64, durationMinutes int) int64 {
	if hourlyRate <= 0 || durationMinutes <= 0 {
		return 0
	}
	return (hourlyRate*int64(durationMinutes) + 30) / 60
}
