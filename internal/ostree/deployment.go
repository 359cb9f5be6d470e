// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ostree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/aibor/sandboxvm/internal/sys"
)

// DeployRoot is the directory all deployments are located in.
const DeployRoot = "/sysroot/ostree/deploy"

var (
	// ErrNoDeployment is returned if rpm-ostree reports no deployments.
	ErrNoDeployment = errors.New("no deployment found")

	// ErrIncompleteDeployment is returned if a deployment lacks fields
	// required to build its path.
	ErrIncompleteDeployment = errors.New("incomplete deployment")
)

// Deployment is a single rpm-ostree deployment.
type Deployment struct {
	OSName   string `json:"osname"`
	Checksum string `json:"checksum"`
	Serial   int    `json:"serial"`
	Booted   bool   `json:"booted"`
}

// Path returns the root directory of the deployment.
func (d Deployment) Path() string {
	return filepath.Join(
		DeployRoot,
		d.OSName,
		"deploy",
		d.Checksum+"."+strconv.Itoa(d.Serial),
	)
}

func (d Deployment) validate() error {
	if d.OSName == "" || d.Checksum == "" {
		return fmt.Errorf("%w: osname %q, checksum %q",
			ErrIncompleteDeployment, d.OSName, d.Checksum)
	}

	return nil
}

type status struct {
	Deployments []Deployment `json:"deployments"`
}

// ParseStatus parses the JSON output of "rpm-ostree status --json" and returns
// the first deployment, which is the default one.
func ParseStatus(data []byte) (Deployment, error) {
	var s status

	if err := json.Unmarshal(data, &s); err != nil {
		return Deployment{}, fmt.Errorf("parse status: %w", err)
	}

	if len(s.Deployments) == 0 {
		return Deployment{}, ErrNoDeployment
	}

	deployment := s.Deployments[0]

	if err := deployment.validate(); err != nil {
		return Deployment{}, err
	}

	return deployment, nil
}

// Resolver looks up deployments using the rpm-ostree tool.
type Resolver struct {
	HostCommand sys.HostCommand

	// Binary is the rpm-ostree executable. Defaults to "rpm-ostree".
	Binary string
}

// DeploymentRoot returns the root directory of the default deployment.
func (r *Resolver) DeploymentRoot(ctx context.Context) (string, error) {
	binary := r.Binary
	if binary == "" {
		binary = "rpm-ostree"
	}

	out, err := r.HostCommand.Output(ctx, binary, "status", "-b", "--json")
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	deployment, err := ParseStatus(out)
	if err != nil {
		return "", err
	}

	return deployment.Path(), nil
}
