package flows

import (
	"errors"
	"strconv"

	"github.com/dmitrijs2005/authflow/internal/client/authapi"
	"github.com/go-playground/validator/v10"
)

// Messages for failures detected before any request is sent.
const (
	MsgFillAllFields      = "Please fill in all fields"
	MsgInvalidEmail       = "Please enter a valid email address"
	MsgEnterVerification  = "Please enter the verification code"
	MsgEnterIdentifier    = "Please enter email or username"
	MsgEnterOTP           = "Please enter the OTP"
	MsgOTPTooLong         = "The OTP is at most 6 characters long"
	MsgEnterPassword      = "Please enter your password"
	MsgEnterEmail         = "Please enter your email address"
	MsgMissingResetToken  = "Reset link is missing its token"
	MsgPasswordTooShort   = "Password must be at least 6 characters long"
	MsgPasswordsDontMatch = "Passwords do not match"
)

// MinPasswordLength is the shortest new password accepted by a reset.
const MinPasswordLength = 6

// OTPLength is the number of characters in a one-time code.
const OTPLength = 6

var validate = validator.New(validator.WithRequiredStructEnabled())

func checkCredentials(c authapi.Credentials) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return authapi.Validation(MsgFillAllFields)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return authapi.Validation(MsgFillAllFields)
		}
	}
	return authapi.Validation(MsgInvalidEmail)
}

// checkVar validates a single field against tag and returns a validation
// error with msg on failure.
func checkVar(v, tag, msg string) error {
	if err := validate.Var(v, tag); err != nil {
		return authapi.Validation(msg)
	}
	return nil
}

func checkOTP(code, missing string) error {
	if err := checkVar(code, "required", missing); err != nil {
		return err
	}
	return checkVar(code, "max="+strconv.Itoa(OTPLength), MsgOTPTooLong)
}
