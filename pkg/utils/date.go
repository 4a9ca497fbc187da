package utils

import "time"

// IsValidDate verifica se a string é uma data YYYY-MM-DD válida
func IsValidDate(dateStr string) bool {
	_, err := time.Parse(time.DateOnly, dateStr)
	return err == nil
}
