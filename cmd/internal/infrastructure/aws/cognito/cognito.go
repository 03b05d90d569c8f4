package cognitoclient

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// AdminDirectory verifies administrator credentials against a Cognito user
// pool. Employees never go through it.
type AdminDirectory interface {
	SignUp(ctx context.Context, email, password string) (string, error)
	SignIn(ctx context.Context, email, password string) error
	AdminDeleteUser(ctx context.Context, email string) error
}

type cognitoClient struct {
	client      *cognito.Client
	appClientID string
	userPoolID  string
}

func NewCognitoClient(ctx context.Context, region, appClientID, userPoolID string) (AdminDirectory, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	return &cognitoClient{
		client:      cognito.NewFromConfig(cfg),
		appClientID: appClientID,
		userPoolID:  userPoolID,
	}, nil
}

// SignUp creates the admin on Cognito and returns its "sub" (the UUID)
func (c *cognitoClient) SignUp(ctx context.Context, email, password string) (string, error) {
	out, err := c.client.SignUp(ctx, &cognito.SignUpInput{
		ClientId: aws.String(c.appClientID),
		Username: aws.String(email),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.UserSub), nil
}

// SignIn only checks the credentials; sessions are issued by us.
func (c *cognitoClient) SignIn(ctx context.Context, email, password string) error {
	_, err := c.client.InitiateAuth(ctx, &cognito.InitiateAuthInput{
		AuthFlow: types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
		ClientId: aws.String(c.appClientID),
	})
	return err
}

func (c *cognitoClient) AdminDeleteUser(ctx context.Context, email string) error {
	_, err := c.client.AdminDeleteUser(ctx, &cognito.AdminDeleteUserInput{
		UserPoolId: aws.String(c.userPoolID),
		Username:   aws.String(email),
	})
	return err
}
