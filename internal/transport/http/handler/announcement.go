package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/southville8b/student-portal/internal/domain"
)

// announcements is the static feed shown on the app's landing screen.
// Content is managed here until the registrar gets an admin surface.
var announcements = []domain.Announcement{
	{
		ID:      1,
		Title:   "Enrollment for 2nd Semester is now open",
		Date:    "2026-01-05",
		Content: "Submit your grade slip through the app to enroll for the second semester. Deadline is January 31.",
	},
	{
		ID:      2,
		Title:   "Document submission reminder",
		Date:    "2025-11-18",
		Content: "Students with incomplete requirements (Form 137, Good Moral) must upload them before the end of the semester.",
	},
	{
		ID:      3,
		Title:   "Scheduled system maintenance",
		Date:    "2025-10-02",
		Content: "The student portal will be unavailable on October 5 from 10PM to 2AM for scheduled maintenance.",
	},
}

type AnnouncementHandler struct{}

func NewAnnouncementHandler() *AnnouncementHandler {
	return &AnnouncementHandler{}
}

// GET /api/announcements
func (h *AnnouncementHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "announcements": announcements})
}
