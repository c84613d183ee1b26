package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Gateway Errors
// ---------------------------------------------------------------------------

var (
	// ErrUnavailable indicates the platform could not be reached at all
	ErrUnavailable = errors.New("platform: temporarily unavailable")
	// ErrRequestFailed indicates the platform rejected the request
	ErrRequestFailed = errors.New("platform: request failed")
	// ErrInvalidResponse indicates the platform returned a body that is not valid JSON
	ErrInvalidResponse = errors.New("platform: invalid response")
	// ErrUnknownAPIKey indicates the access token is no longer accepted by the platform
	ErrUnknownAPIKey = errors.New("platform: unknown api key")
	// ErrSiteNotFound indicates the site does not exist on the platform anymore
	ErrSiteNotFound = errors.New("platform: site not found")
)

// RequestError carries the classified outcome of a failed platform call.
// Expected errors are part of normal operation (logged at warn); anything
// else is unexpected and logged at error.
type RequestError struct {
	// Op names the operation for logging, e.g. "getting site details"
	Op string
	// Message is the error message reported by the platform, if any
	Message string
	// StatusCode is the HTTP status code of the response, 0 if none was received
	StatusCode int
	// Expected reports whether the message matched a known error for the operation
	Expected bool
	// Err is the sentinel this error wraps
	Err error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s - %s", e.Op, e.Message)
	}
	return e.Op
}

// Unwrap returns the wrapped sentinel
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsExpected reports whether err is a platform error the caller should
// treat as routine (known platform-side condition, not an integration bug).
func IsExpected(err error) bool {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Expected
	}
	return false
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// AccessToken identifies a platform credential for outgoing requests
type AccessToken struct {
	// Token is the raw access token sent in the request header
	Token string
	// UserID is the platform user the token belongs to
	UserID int64
	// SiteID is the platform site the token belongs to
	SiteID int64
}

// Label returns a compact identifier used in log lines
func (t AccessToken) Label() string {
	return fmt.Sprintf("user_%d-site_%d", t.UserID, t.SiteID)
}

// RemoteUser is a platform user record
type RemoteUser struct {
	UserID int64
	Name   string
	Email  string
}

// RemoteSite is a platform site record
type RemoteSite struct {
	SiteID      int64
	UserID      int64
	Title       string
	Domain      string
	IsPublished bool
	// Language is kept raw; the platform occasionally returns non-string
	// values here, in which case it is empty and LanguageValid is false
	Language      string
	LanguageValid bool
}

// RemotePage is a platform page record
type RemotePage struct {
	PageID    int64
	Title     string
	PageURL   string
	PageOrder int
	ParentID  *int64
	Hidden    bool
}

// RemoteBlog is a platform blog record
type RemoteBlog struct {
	BlogID int64
	PageID int64
	Title  string
}

// RemoteBlogPost is a platform blog post as returned by the post list
type RemoteBlogPost struct {
	PostID      int64
	Title       string
	CreatedDate *time.Time
}

// RemoteBlogPostDetail is the full blog post record
type RemoteBlogPostDetail struct {
	RemoteBlogPost
	UpdatedDate    *time.Time
	Body           string
	Link           string
	URL            string
	SEOTitle       string
	SEODescription string
	Tags           map[string]string
}

// RemoteProduct is a store product as returned by the product list
type RemoteProduct struct {
	ProductID int64
	Name      string
	URL       string
}

// RemoteProductDetail is the full store product record including options
type RemoteProductDetail struct {
	RemoteProduct
	ShortDescription string
	Options          []RemoteProductOption
}

// RemoteProductOption is a store product option with its raw choice list
type RemoteProductOption struct {
	OptionID int64
	Name     string
	Choices  []string
}

// RemoteCategory is a store category record
type RemoteCategory struct {
	CategoryID int64
	Name       string
	// ParentCategoryID references another category of the same site; the
	// referenced category may appear later in the same listing
	ParentCategoryID *int64
}

// PaymentReport is an outgoing payment notification
type PaymentReport struct {
	Name          string
	Method        string
	GrossAmount   decimal.Decimal
	PayableAmount decimal.Decimal
	Detail        string
	Kind          string
	Term          string
	Currency      string
}

// DeauthorizeStatusDisconnected is the status the platform reports after a
// successful app disconnect
const DeauthorizeStatusDisconnected = "disconnected"

// ---------------------------------------------------------------------------
// Gateway Port Interface
// ---------------------------------------------------------------------------

// Gateway is the port interface for the website-builder platform API.
// It is defined in the domain layer; the HTTP adapter lives in the
// infrastructure layer.
type Gateway interface {
	// GetUser retrieves a user record
	GetUser(ctx context.Context, token AccessToken, userID int64) (*RemoteUser, error)

	// GetSite retrieves a site record
	GetSite(ctx context.Context, token AccessToken, siteID int64) (*RemoteSite, error)

	// ListPages retrieves all pages of a site (paginated internally)
	ListPages(ctx context.Context, token AccessToken, siteID int64) ([]RemotePage, error)

	// ListBlogs retrieves all blogs of a site
	ListBlogs(ctx context.Context, token AccessToken, siteID int64) ([]RemoteBlog, error)

	// ListPosts retrieves all posts of a blog
	ListPosts(ctx context.Context, token AccessToken, siteID, blogID int64) ([]RemoteBlogPost, error)

	// GetPost retrieves the full record of a blog post
	GetPost(ctx context.Context, token AccessToken, siteID, blogID, postID int64) (*RemoteBlogPostDetail, error)

	// ListProducts retrieves all store products of a site (paginated internally)
	ListProducts(ctx context.Context, token AccessToken, siteID int64) ([]RemoteProduct, error)

	// GetProduct retrieves the full record of a store product, options included
	GetProduct(ctx context.Context, token AccessToken, siteID, productID int64) (*RemoteProductDetail, error)

	// ListProductOptions retrieves the options of a store product
	ListProductOptions(ctx context.Context, token AccessToken, siteID, productID int64) ([]RemoteProductOption, error)

	// ListCategories retrieves all store categories of a site (paginated internally)
	ListCategories(ctx context.Context, token AccessToken, siteID int64) ([]RemoteCategory, error)

	// PublishSite publishes the site
	PublishSite(ctx context.Context, token AccessToken, siteID int64) error

	// PublishSnippet installs the app snippet on the site
	PublishSnippet(ctx context.Context, token AccessToken, siteID int64, snippet string) error

	// UpdateCard updates an app dashboard card
	UpdateCard(ctx context.Context, token AccessToken, siteID int64, cardName string, cardData any, hidden bool) error

	// Deauthorize disconnects the app from the site and returns the
	// status reported by the platform
	Deauthorize(ctx context.Context, token AccessToken, siteID int64) (string, error)

	// NotifyPayment reports a payment to the platform
	NotifyPayment(ctx context.Context, token AccessToken, report PaymentReport) error
}
