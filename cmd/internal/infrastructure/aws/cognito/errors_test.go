package cognitoclient

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"pontodigital/cmd/internal/utils/apierror"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want apierror.ErrorResponse
	}{
		{"unknown user", &types.UserNotFoundException{}, apierror.CredentialsMismatch},
		{"wrong password", fmt.Errorf("sign in: %w", &types.NotAuthorizedException{}), apierror.CredentialsMismatch},
		{"taken", &types.UsernameExistsException{}, apierror.AdminEmailTakenError},
		{"weak password", &types.InvalidPasswordException{}, apierror.IDPInvalidPasswordError},
		{"throttled", &types.TooManyRequestsException{}, apierror.IDPUnavailableError},
		{"other", errors.New("boom"), apierror.IDPUnavailableError},
	}

	for _, tc := range cases {
		if got := MapError(tc.err); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}
