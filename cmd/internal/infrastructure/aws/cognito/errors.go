package cognitoclient

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/utils/apierror"
)

// MapError translates user pool failures into API errors. Unknown users and
// wrong passwords collapse into the same response so admin emails can't be
// discovered through the login route.
func MapError(err error) apierror.ErrorResponse {
	var (
		invalidPwd    *types.InvalidPasswordException
		userNotFound  *types.UserNotFoundException
		notConfirmed  *types.UserNotConfirmedException
		notAuthorized *types.NotAuthorizedException
		userExists    *types.UsernameExistsException
		tooMany       *types.TooManyRequestsException
	)

	switch {
	case errors.As(err, &invalidPwd):
		return apierror.IDPInvalidPasswordError
	case errors.As(err, &userExists):
		return apierror.AdminEmailTakenError
	case errors.As(err, &userNotFound), errors.As(err, &notAuthorized):
		return apierror.CredentialsMismatch
	case errors.As(err, &notConfirmed):
		return apierror.MissingAccessError
	case errors.As(err, &tooMany):
		log.Warnf("user pool is throttling requests: %v", err)
		return apierror.IDPUnavailableError
	default:
		log.Errorf("unmapped cognito error: %v", err)
		return apierror.IDPUnavailableError
	}
}
