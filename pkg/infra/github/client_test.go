package github

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/gt"
)

func TestToRawRelease(t *testing.T) {
	published := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	rel := &github.RepositoryRelease{
		Name:            github.Ptr("Release v1.2.3"),
		TagName:         github.Ptr("v1.2.3"),
		Body:            github.Ptr("changelog"),
		Prerelease:      github.Ptr(true),
		TargetCommitish: github.Ptr("deadbeef"),
		PublishedAt:     &github.Timestamp{Time: published},
		Assets: []*github.ReleaseAsset{
			{
				ID:                 github.Ptr(int64(42)),
				Name:               github.Ptr("app.zip"),
				Size:               github.Ptr(1024),
				BrowserDownloadURL: github.Ptr("https://example.com/app.zip"),
			},
		},
	}

	raw := toRawRelease(rel)

	gt.Value(t, raw.Name).Equal("Release v1.2.3")
	gt.Value(t, raw.TagName).Equal("v1.2.3")
	gt.Value(t, raw.Body).Equal("changelog")
	gt.Value(t, raw.Prerelease).Equal(true)
	gt.Value(t, raw.TargetCommit).Equal("deadbeef")
	gt.Value(t, raw.LastModified.Equal(published)).Equal(true)

	gt.Number(t, len(raw.Assets)).Equal(1)
	gt.Value(t, raw.Assets[0].ID).Equal(int64(42))
	gt.Value(t, raw.Assets[0].Name).Equal("app.zip")
	gt.Value(t, raw.Assets[0].Size).Equal(int64(1024))
	gt.Value(t, raw.Assets[0].DownloadURL).Equal("https://example.com/app.zip")
}

func TestToRawRelease_PublishedAtFallback(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rel := &github.RepositoryRelease{
		TagName:   github.Ptr("v0.1.0"),
		CreatedAt: &github.Timestamp{Time: created},
	}

	raw := toRawRelease(rel)
	gt.Value(t, raw.LastModified.Equal(created)).Equal(true)
}

func TestIsNotFound(t *testing.T) {
	notFound := &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusNotFound},
	}
	gt.Value(t, isNotFound(notFound)).Equal(true)

	forbidden := &github.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusForbidden},
	}
	gt.Value(t, isNotFound(forbidden)).Equal(false)

	gt.Value(t, isNotFound(nil)).Equal(false)
}
