package gcp

import (
	"context"
	"fmt"
	"strings"

	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
)

// ProjectLookup resolves project metadata from Resource Manager.
type ProjectLookup interface {
	ProjectNumber(ctx context.Context, projectID string) (string, error)
	Close() error
}

type projectLookup struct {
	client *resourcemanager.ProjectsClient
}

// NewProjectLookup builds a Resource Manager backed lookup using
// Application Default Credentials.
func NewProjectLookup(ctx context.Context) (ProjectLookup, error) {
	client, err := resourcemanager.NewProjectsClient(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnauthorized, "cannot create resource manager client", err)
	}
	return &projectLookup{client: client}, nil
}

// ProjectNumber returns the numeric project identifier for a project
// id. The original workflow made users copy the number by hand; here
// it is derived so only GCP_PROJECT_ID is strictly needed.
func (l *projectLookup) ProjectNumber(ctx context.Context, projectID string) (string, error) {
	project, err := l.client.GetProject(ctx, &resourcemanagerpb.GetProjectRequest{
		Name: "projects/" + projectID,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.CodeRemoteUnavailable,
			fmt.Sprintf("cannot look up project %q", projectID), err)
	}
	// Project.Name comes back as projects/<number>.
	return strings.TrimPrefix(project.GetName(), "projects/"), nil
}

func (l *projectLookup) Close() error {
	return l.client.Close()
}
