package utils

import (
	"context"
	"fmt"

	"memberportal/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FirebaseClients bundles the hosted auth and messaging clients.
type FirebaseClients struct {
	App       *firebase.App
	Auth      *auth.Client
	Messaging *messaging.Client
}

// FirebaseInit initializes the Firebase App with its Auth and Messaging clients.
func FirebaseInit(ctx context.Context) (*FirebaseClients, error) {
	opt := option.WithCredentialsFile(config.AppConfig.FirebaseCredentials)
	conf := &firebase.Config{
		ProjectID:     config.AppConfig.FirebaseProjectID,
		StorageBucket: config.DefaultBucket(),
	}

	app, err := firebase.NewApp(ctx, conf, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Auth client: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}

	return &FirebaseClients{App: app, Auth: authClient, Messaging: msgClient}, nil
}
