package orchestrator

import (
	"context"

	"github.com/agenticsoc/agentspacectl/internal/resource"
)

// DeploySpecs carries the desired state for a full deployment. The
// authorization is optional; a deployment without it links the agent
// with reduced capabilities.
type DeploySpecs struct {
	Engine        resource.EngineSpec
	App           resource.AppSpec
	Authorization *resource.AuthorizationSpec
	Link          resource.LinkSpec
}

// FullDeploy provisions the whole stack in dependency order: engine,
// app, authorization, then the agent link binding them. Identifiers
// produced by earlier steps feed later ones. The first failure aborts
// the sequence; already-satisfied steps skip and keep going.
func (o *Orchestrator) FullDeploy(ctx context.Context, specs DeploySpecs) ([]Outcome, error) {
	var outcomes []Outcome

	engine, err := o.Register(ctx, resource.ComputeAgent, specs.Engine)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, *engine)

	app, err := o.Register(ctx, resource.IntegrationApp, specs.App)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, *app)

	if specs.Authorization != nil {
		auth, err := o.Register(ctx, resource.OAuthAuthorization, *specs.Authorization)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, *auth)
	}

	link := specs.Link
	if link.EngineResource == "" && engine.Handle != nil {
		link.EngineResource = engine.Handle.RemoteID
	}
	linkOut, err := o.Register(ctx, resource.IntegrationAgentLink, link)
	if err != nil {
		return outcomes, err
	}
	outcomes = append(outcomes, *linkOut)

	return outcomes, nil
}

// RedeployAll tears down the agent link and engine in reverse
// dependency order, then runs a full deployment. Without Force the app
// and authorization survive and skip on the way back up; with Force
// they are recreated too.
func (o *Orchestrator) RedeployAll(ctx context.Context, specs DeploySpecs) ([]Outcome, error) {
	var outcomes []Outcome

	for _, kind := range []resource.Kind{resource.IntegrationAgentLink, resource.ComputeAgent} {
		out, err := o.Delete(ctx, kind, o.ids[kind])
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, *out)
	}

	deployed, err := o.FullDeploy(ctx, specs)
	outcomes = append(outcomes, deployed...)
	return outcomes, err
}
