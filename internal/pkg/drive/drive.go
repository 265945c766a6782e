package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Client reads and writes files by name inside one Drive folder.
type Client struct {
	svc      *drive.Service
	folderID string
}

// NewClient authenticates with a service-account key. credentialsJSON wins
// over credentialsFile when both are set.
func NewClient(ctx context.Context, folderID, credentialsFile, credentialsJSON string) (*Client, error) {
	raw := []byte(credentialsJSON)
	if strings.TrimSpace(credentialsJSON) == "" {
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read drive credentials: %w", err)
		}
		raw = b
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drive credentials: %w", err)
	}

	svc, err := drive.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	slog.Info("Drive client ready", "folder_id", folderID)
	return &Client{svc: svc, folderID: folderID}, nil
}

// FindFileID returns the id of the newest non-trashed file called name, or ""
// when there is none.
func (c *Client) FindFileID(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		escapeQuery(name), escapeQuery(c.folderID))

	list, err := c.svc.Files.List().
		Q(q).
		Fields("files(id, name, modifiedTime)").
		OrderBy("modifiedTime desc").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to search drive for %s: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// Download returns the content of name. found is false when the folder has no
// such file.
func (c *Client) Download(ctx context.Context, name string) (content []byte, found bool, err error) {
	id, err := c.FindFileID(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if id == "" {
		return nil, false, nil
	}

	resp, err := c.svc.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, false, fmt.Errorf("failed to download %s: %w", name, err)
	}
	defer resp.Body.Close()

	content, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return content, true, nil
}

// Upload overwrites name, creating it in the folder on first save.
func (c *Client) Upload(ctx context.Context, name string, content []byte) error {
	id, err := c.FindFileID(ctx, name)
	if err != nil {
		return err
	}

	media := bytes.NewReader(content)
	if id != "" {
		_, err = c.svc.Files.Update(id, &drive.File{}).
			Media(media, googleapi.ContentType(xlsxMimeType)).
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", name, err)
		}
		return nil
	}

	_, err = c.svc.Files.Create(&drive.File{
		Name:     name,
		Parents:  []string{c.folderID},
		MimeType: xlsxMimeType,
	}).
		Media(media, googleapi.ContentType(xlsxMimeType)).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	slog.Info("Drive file created", "name", name, "folder_id", c.folderID)
	return nil
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
