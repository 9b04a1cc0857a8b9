package notionapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"
	"sessions-to-notion/api/apierr"
)

const (
	propName     = "Name"
	propEmail    = "Email"
	propDemo     = "Demo"
	propDemoDate = "Demo Date"
)

type Client struct {
	Config Config
	Client *notionapi.Client
	Logger *zap.Logger
}

type Config struct {
	// DatabaseIDContact is either the bare database id or a notion.so link to it.
	DatabaseIDContact string `split_words:"true"`
	Version           string `default:"2022-06-28"`
	EnsureSchema      bool   `split_words:"true"`
}

// Contact is the person a booking is synced as.
type Contact struct {
	Email     string
	FirstName string
	LastName  string
	// DemoDate is the booking's start time exactly as the scheduling API sent it.
	DemoDate string
}

func (c Contact) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

type Action string

const (
	ActionUpdated Action = "updated"
	ActionCreated Action = "created"
)

type Upsert struct {
	Action Action
	PageID notionapi.PageID
}

// EnsureDatabase checks that the contact database has the properties written by
// the sync and adds the missing ones. It does nothing unless EnsureSchema is set.
func (c *Client) EnsureDatabase(ctx context.Context) error {
	if !c.Config.EnsureSchema {
		return nil
	}
	c.Logger.Info("ensuring database")
	id := getDBId(c.Config.DatabaseIDContact)
	db, err := c.Client.Database.Get(ctx, notionapi.DatabaseID(id))
	if err != nil {
		return classify(fmt.Sprintf("fetching DB with id %s", id), err)
	}
	want := map[string]notionapi.PropertyConfig{
		propEmail:    notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
		propDemo:     notionapi.CheckboxPropertyConfig{Type: notionapi.PropertyConfigTypeCheckbox},
		propDemoDate: notionapi.DatePropertyConfig{Type: notionapi.PropertyConfigTypeDate},
	}
	confs := make(map[string]notionapi.PropertyConfig)
	for name, conf := range want {
		existing, ok := db.Properties[name]
		if !ok {
			confs[name] = conf
			continue
		}
		if existing.GetType() != conf.GetType() {
			return fmt.Errorf("property %q has type %s, want %s", name, existing.GetType(), conf.GetType())
		}
	}
	if len(confs) == 0 {
		return nil
	}
	c.Logger.Info("adding missing properties", zap.Int("count", len(confs)))
	_, err = c.Client.Database.Update(ctx, notionapi.DatabaseID(id), &notionapi.DatabaseUpdateRequest{
		Properties: confs,
	})
	if err != nil {
		return classify("update database", err)
	}
	return nil
}

// FindPageByEmail returns the id of the first page whose Email equals email, or
// an empty id if there is none.
func (c *Client) FindPageByEmail(ctx context.Context, email string) (notionapi.PageID, error) {
	resp, err := c.Client.Database.Query(ctx, notionapi.DatabaseID(getDBId(c.Config.DatabaseIDContact)), &notionapi.DatabaseQueryRequest{
		Filter: &notionapi.PropertyFilter{
			Property: propEmail,
			RichText: &notionapi.TextFilterCondition{Equals: email},
		},
	})
	if err != nil {
		return "", classify(fmt.Sprintf("find page by email %s", email), err)
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return notionapi.PageID(resp.Results[0].ID), nil
}

// UpdateContact overwrites the name and demo date of an existing page and marks it as demo.
func (c *Client) UpdateContact(ctx context.Context, pageID notionapi.PageID, fullName string, demoDate string) error {
	props := demoProperties(fullName, demoDate)
	if _, err := c.Client.Page.Update(ctx, pageID, &notionapi.PageUpdateRequest{Properties: props}); err != nil {
		return classify(fmt.Sprintf("update page %s", pageID), err)
	}
	c.Logger.Info("updated page",
		zap.String("page_id", string(pageID)),
		zap.String("name", fullName),
		zap.String("demo_date", demoDate),
	)
	return nil
}

// CreateContact adds a page for contact to the database.
func (c *Client) CreateContact(ctx context.Context, contact Contact) (notionapi.PageID, error) {
	props := demoProperties(contact.FullName(), contact.DemoDate)
	props[propEmail] = notionapi.RichTextProperty{
		RichText: []notionapi.RichText{
			{
				Type:      notionapi.ObjectTypeText,
				Text:      &notionapi.Text{Content: contact.Email},
				PlainText: contact.Email,
			},
		},
	}
	page, err := c.Client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(getDBId(c.Config.DatabaseIDContact)),
		},
		Properties: props,
	})
	if err != nil {
		return "", classify(fmt.Sprintf("create page for %s", contact.Email), err)
	}
	c.Logger.Info("added guest",
		zap.String("name", contact.FullName()),
		zap.String("email", contact.Email),
		zap.String("demo_date", contact.DemoDate),
	)
	return notionapi.PageID(page.ID), nil
}

// UpsertContact updates the page matching the contact's email or creates one.
// A failed lookup counts as no match.
func (c *Client) UpsertContact(ctx context.Context, contact Contact) (Upsert, error) {
	pageID, err := c.FindPageByEmail(ctx, contact.Email)
	if err != nil {
		c.Logger.Error("lookup failed, creating a new page",
			append(apierr.Fields(err), zap.String("email", contact.Email))...)
		pageID = ""
	}
	if pageID != "" {
		if err := c.UpdateContact(ctx, pageID, contact.FullName(), contact.DemoDate); err != nil {
			return Upsert{Action: ActionUpdated, PageID: pageID}, err
		}
		return Upsert{Action: ActionUpdated, PageID: pageID}, nil
	}
	created, err := c.CreateContact(ctx, contact)
	if err != nil {
		return Upsert{Action: ActionCreated}, err
	}
	return Upsert{Action: ActionCreated, PageID: created}, nil
}

func demoProperties(fullName string, demoDate string) notionapi.Properties {
	return notionapi.Properties{
		propName: notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{Text: &notionapi.Text{Content: fullName}},
			},
		},
		propDemo: notionapi.CheckboxProperty{
			Checkbox: true,
		},
		propDemoDate: rawDateProperty{Start: demoDate},
	}
}

// rawDateProperty sends Start as given. notionapi.Date would reformat it as a
// full RFC 3339 timestamp.
type rawDateProperty struct {
	notionapi.DateProperty
	Start string
}

func (p rawDateProperty) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]string{
		"date": {"start": p.Start},
	})
}

func classify(op string, err error) error {
	var notionErr *notionapi.Error
	if errors.As(err, &notionErr) {
		return &apierr.Error{
			Kind:       apierr.KindStatus,
			Op:         op,
			StatusCode: notionErr.Status,
			Body:       fmt.Sprintf("%s: %s", notionErr.Code, notionErr.Message),
			Err:        err,
		}
	}
	return apierr.Classify(op, err)
}

// getDBId accepts a bare id or a link such as https://www.notion.so/<id>?v=<view>.
func getDBId(link string) string {
	const prefix = "https://www.notion.so/"
	if !strings.HasPrefix(link, prefix) {
		return link
	}
	subs := strings.Split(link[len(prefix):], "?v")
	id := subs[0]
	// Workspace links carry a title slug before the id.
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	if i := strings.LastIndex(id, "-"); i >= 0 && len(id)-i-1 == 32 {
		id = id[i+1:]
	}
	return id
}
