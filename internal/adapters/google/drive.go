package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

const defaultDriveBase = "https://www.googleapis.com/drive/v3"

// Drive implements domain.DriveStore (template-sheet copies).
type Drive struct {
	base     string
	folderID string // optional parent folder for copies
	c        *restClient
}

func NewDrive(ts *TokenSource, folderID string, rps int) *Drive {
	return &Drive{base: defaultDriveBase, folderID: folderID, c: newRESTClient("drive", ts, rps)}
}

// WithBaseURL overrides the API base (tests).
func (d *Drive) WithBaseURL(base string) *Drive {
	d.base = base
	return d
}

func (d *Drive) CopyFile(ctx context.Context, fileID, newName string) (string, error) {
	body := map[string]any{"name": newName}
	if d.folderID != "" {
		body["parents"] = []string{d.folderID}
	}

	var out struct {
		ID string `json:"id"`
	}
	u := fmt.Sprintf("%s/files/%s/copy", d.base, url.PathEscape(fileID))
	if err := d.c.do(ctx, http.MethodPost, u, "files.copy", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("drive: copy of %s returned no file id", fileID)
	}
	return out.ID, nil
}
