package handler

// Client-facing messages. Kept deliberately generic: they never reveal
// whether an email exists beyond what the flow itself requires, and
// never leak configuration details.
const (
	errInternalServer = "Internal server error"
	errServerConfig   = "Server configuration error."

	msgMissingEmailPassword = "Please enter both email and password."
	msgInvalidEmail         = "Please enter a valid email address."
	msgInvalidCredentials   = "Invalid email or password."
	msgPasswordLoginOff     = "Password login not available. Please use OTP login."
	msgTooManyLogins        = "Too many login attempts. Please try again later or use OTP login."
	msgLoginSuccess         = "Login successful!"

	msgMissingEmail     = "Please enter your email address."
	msgEmailNotFound    = "Email not found in our system."
	msgTooManyOTPReqs   = "Too many OTP requests. Please try again later."
	msgOTPSent          = "OTP sent to your email address."
	msgOTPSendFailed    = "Failed to send OTP email. Please try again."
	msgTooManyResends   = "Too many resend requests. Please try again later."
	msgNewOTPSent       = "New OTP sent to your email address."
	msgResendFailed     = "Failed to resend OTP. Please try again."
	msgOTPDebugIssued   = "OTP generated (email service not configured)"
	msgNewOTPDebug      = "New OTP generated (email service not configured)"
	msgMissingEmailOTP  = "Please enter both email and OTP."
	msgOTPFormat        = "OTP must be a 6-digit number."
	msgTooManyVerifies  = "Too many verification attempts. Please request a new OTP."
	msgOTPNotFound      = "OTP not found or expired. Please request a new OTP."
	msgOTPExpired       = "OTP has expired. Please request a new OTP."
	msgOTPExhausted     = "Too many failed attempts. Please request a new OTP."
	msgVerifyFailed     = "Verification failed. Please try again."

	msgPasswordChanged     = "Password changed successfully"
	msgPasswordFieldsReqd  = "All fields are required"
	msgCurrentPasswordBad  = "Current password incorrect"
	msgStudentNotFound     = "Student not found"
	msgTrackCodeNotFound   = "Track Code Not Found"
	msgEnrollmentNotFound  = "No enrollment found"
	msgDocumentsNotFound   = "No documents found for this student"
	msgInvalidDocumentType = "Invalid document type"
	msgInvalidFileType     = "Invalid file type. Only JPG, PNG, and PDF are allowed."
	msgFileTooLarge        = "File size too large. Maximum size is 10MB."
	msgNoFileUploaded      = "No file uploaded"
	msgDocumentUploaded    = "Document uploaded successfully"
	msgEnrollmentSubmitted = "2nd Semester Enrollment Submitted!"
)
