package main

import (
	"context"
	"fmt"
	"path"

	"dagger/tutor/internal/dagger"
)

// bucket is an S3-compatible destination for release artifacts.
type bucket struct {
	endpoint, name, accessKeyID, secretAccessKey *dagger.Secret
}

// sync copies artifacts to s3://<bucket>/<prefix> with the AWS CLI.
func (b bucket) sync(ctx context.Context, artifacts *dagger.Directory, prefix string) error {
	name, err := b.name.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("reading bucket name: %w", err)
	}
	endpoint, err := b.endpoint.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("reading bucket endpoint: %w", err)
	}

	_, err = dag.Container().
		From("amazon/aws-cli:latest").
		WithSecretVariable("AWS_ACCESS_KEY_ID", b.accessKeyID).
		WithSecretVariable("AWS_SECRET_ACCESS_KEY", b.secretAccessKey).
		WithEnvVariable("AWS_DEFAULT_REGION", "auto").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts").
		WithExec([]string{"aws", "s3", "sync", ".", "s3://" + path.Join(name, prefix), "--endpoint-url", endpoint}).
		Sync(ctx)
	if err != nil {
		return fmt.Errorf("uploading to %s: %w", prefix, err)
	}
	return nil
}

// withChecksums adds a SHA256SUMS file covering every binary in artifacts.
func withChecksums(artifacts *dagger.Directory) *dagger.Directory {
	sums := dag.Container().
		From("alpine:3").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts").
		WithExec([]string{"sh", "-c", "find . -type f -name tutor | sort | xargs sha256sum > SHA256SUMS"}).
		File("/artifacts/SHA256SUMS")

	return artifacts.WithFile("SHA256SUMS", sums)
}

// publish builds release binaries stamped with version and uploads them under
// every prefix.
func (t *Tutor) publish(ctx context.Context, b bucket, version, commit string, prefixes ...string) (*dagger.Directory, error) {
	artifacts := withChecksums(t.BuildRelease(ctx, version, commit))
	for _, prefix := range prefixes {
		if err := b.sync(ctx, artifacts, prefix); err != nil {
			return artifacts, err
		}
	}
	return artifacts, nil
}

// ReleaseLatest builds a tagged release and uploads it under its version and
// under "latest".
func (t *Tutor) ReleaseLatest(
	ctx context.Context,

	// Version string (e.g., "v1.0.0")
	version string,

	// Git commit SHA
	commit string,

	endpoint *dagger.Secret,
	bucketName *dagger.Secret,
	accessKeyId *dagger.Secret,
	secretAccessKey *dagger.Secret,
) (*dagger.Directory, error) {
	b := bucket{endpoint: endpoint, name: bucketName, accessKeyID: accessKeyId, secretAccessKey: secretAccessKey}
	return t.publish(ctx, b, version, commit, version, "latest")
}

// Nightly builds the current commit and uploads it under "nightly".
func (t *Tutor) Nightly(
	ctx context.Context,

	// Git commit SHA
	commit string,

	endpoint *dagger.Secret,
	bucketName *dagger.Secret,
	accessKeyId *dagger.Secret,
	secretAccessKey *dagger.Secret,
) (*dagger.Directory, error) {
	b := bucket{endpoint: endpoint, name: bucketName, accessKeyID: accessKeyId, secretAccessKey: secretAccessKey}
	return t.publish(ctx, b, "nightly", commit, "nightly")
}
