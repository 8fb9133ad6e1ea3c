package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GSOC-Innovators-Club/Appointment-Letter/config"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/models"
	"github.com/GSOC-Innovators-Club/Appointment-Letter/utils"
)

// Client reads member documents from the external directory store over its
// REST surface. The store is external and read-only from this application's
// point of view.
type Client struct {
	http       *resty.Client
	projectID  string
	apiKey     string
	collection string
}

// firestoreValue is one typed value in a document field map
type firestoreValue struct {
	StringValue  string `json:"stringValue,omitempty"`
	IntegerValue string `json:"integerValue,omitempty"`
}

type firestoreDocument struct {
	Name   string                    `json:"name"`
	Fields map[string]firestoreValue `json:"fields"`
}

type listDocumentsResponse struct {
	Documents     []firestoreDocument `json:"documents"`
	NextPageToken string              `json:"nextPageToken"`
}

type runQueryResult struct {
	Document *firestoreDocument `json:"document,omitempty"`
}

// NewClient creates a directory client from the firebase configuration
func NewClient(cfg *config.Config) *Client {
	http := resty.New().
		SetBaseURL(cfg.Firebase.StoreEndpoint).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{
		http:       http,
		projectID:  cfg.Firebase.ProjectID,
		apiKey:     cfg.Firebase.APIKey,
		collection: cfg.Firebase.Collection,
	}
}

func (c *Client) documentsPath() string {
	return fmt.Sprintf("/projects/%s/databases/(default)/documents", c.projectID)
}

// docID extracts the opaque document identifier from its full resource name
func docID(resourceName string) string {
	idx := strings.LastIndex(resourceName, "/")
	if idx < 0 {
		return resourceName
	}
	return resourceName[idx+1:]
}

// attributes flattens a document's typed field map into plain strings for the
// normalization boundary
func (d *firestoreDocument) attributes() map[string]string {
	attrs := make(map[string]string, len(d.Fields))
	for name, value := range d.Fields {
		if value.StringValue != "" {
			attrs[name] = value.StringValue
		} else if value.IntegerValue != "" {
			attrs[name] = value.IntegerValue
		}
	}
	return attrs
}

// ListMembers fetches the complete member listing in store order, following
// pagination until the collection is exhausted
func (c *Client) ListMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	pageToken := ""

	for {
		req := c.http.R().
			SetContext(ctx).
			SetQueryParam("key", c.apiKey).
			SetQueryParam("pageSize", "300").
			SetResult(&listDocumentsResponse{})
		if pageToken != "" {
			req.SetQueryParam("pageToken", pageToken)
		}

		resp, err := req.Get(c.documentsPath() + "/" + c.collection)
		if err != nil {
			return nil, utils.ServiceUnavailableError("Failed to reach directory store", err)
		}
		if resp.IsError() {
			return nil, utils.InternalServerError(
				fmt.Sprintf("Directory store returned status %d", resp.StatusCode()), nil)
		}

		page := resp.Result().(*listDocumentsResponse)
		for _, doc := range page.Documents {
			members = append(members, models.FromAttributes(docID(doc.Name), doc.attributes()))
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	utils.Log.Info("Fetched %d members from directory store", len(members))
	return members, nil
}

// FindByEmail resolves a single member record by its email attribute. Returns
// nil with no error when no record matches.
func (c *Client) FindByEmail(ctx context.Context, email string) (*models.Member, error) {
	query := map[string]interface{}{
		"structuredQuery": map[string]interface{}{
			"from": []map[string]interface{}{{"collectionId": c.collection}},
			"where": map[string]interface{}{
				"fieldFilter": map[string]interface{}{
					"field": map[string]string{"fieldPath": "email"},
					"op":    "EQUAL",
					"value": map[string]string{"stringValue": email},
				},
			},
			"limit": 1,
		},
	}

	var results []runQueryResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(query).
		SetResult(&results).
		Post(c.documentsPath() + ":runQuery")
	if err != nil {
		return nil, utils.ServiceUnavailableError("Failed to reach directory store", err)
	}
	if resp.IsError() {
		return nil, utils.InternalServerError(
			fmt.Sprintf("Directory store returned status %d", resp.StatusCode()), nil)
	}

	for _, result := range results {
		if result.Document != nil {
			member := models.FromAttributes(docID(result.Document.Name), result.Document.attributes())
			return &member, nil
		}
	}

	return nil, nil
}
