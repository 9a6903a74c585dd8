package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/southville8b/student-portal/internal/domain"
)

// fail writes the uniform error envelope.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func formatMismatch(remaining int) string {
	return fmt.Sprintf("Invalid OTP. %d attempts remaining.", remaining)
}

// userPayload is the profile slice returned with a fresh session.
// The snake_case aliases are kept for older app builds that still read
// first_name/last_name.
type userPayload struct {
	LRN       string `json:"LRN"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	FirstOld  string `json:"first_name"`
	LastOld   string `json:"last_name"`
}

func newUserPayload(s *domain.Student) userPayload {
	return userPayload{
		LRN:       s.LRN,
		Email:     s.Email,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		FirstOld:  s.FirstName,
		LastOld:   s.LastName,
	}
}
