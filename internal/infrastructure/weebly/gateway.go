package weebly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/sitesync/backend/internal/domain/platform"
)

// interface guard
var _ platform.Gateway = (*Client)(nil)

// GetUser retrieves a platform user record
func (c *Client) GetUser(ctx context.Context, token platform.AccessToken, userID int64) (*platform.RemoteUser, error) {
	params := url.Values{}
	params.Set("user_id", strconv.FormatInt(userID, 10))

	raw, err := c.doRequest(ctx, token, http.MethodGet, "/v1/user", params, nil, "getting user details", nil)
	if err != nil {
		return nil, err
	}
	var payload userPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, decodeError("getting user details", err)
	}
	return &platform.RemoteUser{
		UserID: payload.UserID.Int64(),
		Name:   payload.Name,
		Email:  payload.Email,
	}, nil
}

// GetSite retrieves a platform site record. A deleted site comes back
// as platform.ErrSiteNotFound, which callers treat as routine.
func (c *Client) GetSite(ctx context.Context, token platform.AccessToken, siteID int64) (*platform.RemoteSite, error) {
	path := fmt.Sprintf("/v1/user/sites/%d", siteID)
	raw, err := c.doRequest(ctx, token, http.MethodGet, path, nil, nil, "getting site details", []string{siteNotFoundMessage})
	if err != nil {
		return nil, err
	}
	var payload sitePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, decodeError("getting site details", err)
	}
	site := &platform.RemoteSite{
		SiteID:      payload.SiteID.Int64(),
		UserID:      payload.UserID.Int64(),
		Title:       payload.SiteTitle,
		Domain:      payload.Domain,
		IsPublished: payload.IsPublished.Bool(),
	}
	if len(payload.Language) > 0 {
		var language string
		if err := json.Unmarshal(payload.Language, &language); err != nil {
			c.logger.Error("site language is not a string, keeping stored value",
				zap.Int64("site_id", site.SiteID),
				zap.String("raw", string(payload.Language)))
		} else {
			site.Language = language
			site.LanguageValid = true
		}
	}
	return site, nil
}

// ListPages retrieves all pages of a site
func (c *Client) ListPages(ctx context.Context, token platform.AccessToken, siteID int64) ([]platform.RemotePage, error) {
	path := fmt.Sprintf("/v1/user/sites/%d/pages", siteID)
	elems, err := c.doRequestPaginated(ctx, token, path, "getting pages", nil)
	if err != nil {
		return nil, err
	}
	pages := make([]platform.RemotePage, 0, len(elems))
	for _, elem := range elems {
		var payload pagePayload
		if err := json.Unmarshal(elem, &payload); err != nil {
			return nil, decodeError("getting pages", err)
		}
		pages = append(pages, platform.RemotePage{
			PageID:    payload.PageID.Int64(),
			Title:     payload.Title,
			PageURL:   payload.PageURL,
			PageOrder: int(payload.PageOrder.Int64()),
			ParentID:  optionalID(payload.ParentID),
			Hidden:    payload.Hidden.Bool(),
		})
	}
	return pages, nil
}

// ListBlogs retrieves all blogs of a site. Tokens without the blog
// scope are rejected with a known message, reported as expected.
func (c *Client) ListBlogs(ctx context.Context, token platform.AccessToken, siteID int64) ([]platform.RemoteBlog, error) {
	path := fmt.Sprintf("/v1/user/sites/%d/blogs", siteID)
	raw, err := c.doRequest(ctx, token, http.MethodGet, path, nil, nil, "getting blogs", expectedBlogErrors)
	if err != nil {
		return nil, err
	}
	var payloads []blogPayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, decodeError("getting blogs", err)
	}
	blogs := make([]platform.RemoteBlog, 0, len(payloads))
	for _, payload := range payloads {
		blogs = append(blogs, platform.RemoteBlog{
			BlogID: payload.BlogID.Int64(),
			PageID: payload.PageID.Int64(),
			Title:  payload.Title,
		})
	}
	return blogs, nil
}

// ListPosts retrieves all posts of a blog
func (c *Client) ListPosts(ctx context.Context, token platform.AccessToken, siteID, blogID int64) ([]platform.RemoteBlogPost, error) {
	path := fmt.Sprintf("/v1/user/sites/%d/blogs/%d/posts", siteID, blogID)
	raw, err := c.doRequest(ctx, token, http.MethodGet, path, nil, nil, "getting blog posts", nil)
	if err != nil {
		return nil, err
	}
	var payloads []postPayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, decodeError("getting blog posts", err)
	}
	posts := make([]platform.RemoteBlogPost, 0, len(payloads))
	for _, payload := range payloads {
		posts = append(posts, platform.RemoteBlogPost{
			PostID:      payload.PostID.Int64(),
			Title:       payload.PostTitle,
			CreatedDate: payload.CreatedDate.TimePtr(),
		})
	}
	return posts, nil
}

// GetPost retrieves the full record of a blog post
func (c *Client) GetPost(ctx context.Context, token platform.AccessToken, siteID, blogID, postID int64) (*platform.RemoteBlogPostDetail, error) {
	path := fmt.Sprintf("/v1/user/sites/%d/blogs/%d/posts/%d", siteID, blogID, postID)
	raw, err := c.doRequest(ctx, token, http.MethodGet, path, nil, nil, "getting blog post details", nil)
	if err != nil {
		return nil, err
	}
	var payload postDetailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, decodeError("getting blog post details", err)
	}
	return &platform.RemoteBlogPostDetail{
		RemoteBlogPost: platform.RemoteBlogPost{
			PostID:      payload.PostID.Int64(),
			Title:       payload.PostTitle,
			CreatedDate: payload.CreatedDate.TimePtr(),
		},
		UpdatedDate:    payload.UpdatedDate.TimePtr(),
		Body:           payload.PostBody,
		Link:           payload.PostLink,
		URL:            payload.PostURL,
		SEOTitle:       payload.SEOTitle,
		SEODescription: payload.SEODescription,
		Tags:           payload.tagMap(),
	}, nil
}

// ListProducts retrieves all store products of a site
func (c *Client) ListProducts(ctx context.Context, token platform.AccessToken, siteID int64) ([]platform.RemoteProduct, error) {
	path := fmt.Sprintf("/v1/user/sites/%d/store/products", siteID)
	elems, err := c.doRequestPaginated(ctx, token, path, "getting store products", nil)
	if err != nil {
		return nil, err
	}
	products := make([]platform.RemoteProduct, 0, len(elems))
	for _, elem := range elems {
		var payload productPayload
		if err := json.Unmarshal(elem, &payload); err != nil {
			return nil, decodeError("getting store products", err)
		}
		products = append(products, platform.RemoteProduct{
			ProductID: payload.ProductID.Int64(),
			Name:      payload.Name,
			URL:       payload.URL,
		})
	}
	return products, nil
}

// GetProduct retrieves the full record of a store product. The options
// ride along in the detail response, so no extra round trip is needed.
func (c *Client) GetProduct(ctx context.Context, token platform.AccessToken, siteID, productID int64) (*platform.RemoteProductDetail, error) {
	path := fmt.Sprintf("/v1/user/sites/%d/store/products/%d", siteID, productID)
	raw, err := c.doRequest(ctx, token, http.MethodGet, path, nil, nil, "getting store product details", nil)
	if err != nil {
		return nil, err
	}
	var payload productDetailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, decodeError("getting store product details", err)
	}
	return &platform.RemoteProductDetail{
		RemoteProduct: platform.RemoteProduct{
			ProductID: payload.ProductID.Int64(),
			Name:      payload.Name,
			URL:       payload.URL,
		},
		ShortDescription: payload.ShortDescription,
		Options:          convertOptions(payload.Options),
	}, nil
}

// ListProductOptions retrieves the options of a store product
func (c *Client) ListProductOptions(ctx context.Context, token platform.AccessToken, siteID, productID int64) ([]platform.RemoteProductOption, error) {
	path := fmt.Sprintf("/v1/user/sites/%d/store/products/%d/options", siteID, productID)
	raw, err := c.doRequest(ctx, token, http.MethodGet, path, nil, nil, "getting product options", nil)
	if err != nil {
		return nil, err
	}
	var payloads []optionPayload
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, decodeError("getting product options", err)
	}
	return convertOptions(payloads), nil
}

// ListCategories retrieves all store categories of a site
func (c *Client) ListCategories(ctx context.Context, token platform.AccessToken, siteID int64) ([]platform.RemoteCategory, error) {
	path := fmt.Sprintf("/v1/user/sites/%d/store/categories", siteID)
	elems, err := c.doRequestPaginated(ctx, token, path, "getting store categories", nil)
	if err != nil {
		return nil, err
	}
	categories := make([]platform.RemoteCategory, 0, len(elems))
	for _, elem := range elems {
		var payload categoryPayload
		if err := json.Unmarshal(elem, &payload); err != nil {
			return nil, decodeError("getting store categories", err)
		}
		categories = append(categories, platform.RemoteCategory{
			CategoryID:       payload.CategoryID.Int64(),
			Name:             payload.Name,
			ParentCategoryID: optionalID(payload.ParentCategoryID),
		})
	}
	return categories, nil
}

// PublishSite publishes the site
func (c *Client) PublishSite(ctx context.Context, token platform.AccessToken, siteID int64) error {
	path := fmt.Sprintf("/v1/user/sites/%d/publish", siteID)
	_, err := c.doRequest(ctx, token, http.MethodPost, path, nil, nil, "publishing site", expectedPublishErrors)
	return err
}

// PublishSnippet installs the app snippet on the site
func (c *Client) PublishSnippet(ctx context.Context, token platform.AccessToken, siteID int64, snippet string) error {
	path := fmt.Sprintf("/v1/user/sites/%d/snippet", siteID)
	body := map[string]any{"snippet": snippet}
	_, err := c.doRequest(ctx, token, http.MethodPost, path, nil, body, "publishing snippet", nil)
	return err
}

// UpdateCard updates an app dashboard card
func (c *Client) UpdateCard(ctx context.Context, token platform.AccessToken, siteID int64, cardName string, cardData any, hidden bool) error {
	path := fmt.Sprintf("/v1/user/sites/%d/cards/%s", siteID, url.PathEscape(cardName))
	body := map[string]any{
		"hidden":    hidden,
		"card_data": cardData,
	}
	_, err := c.doRequest(ctx, token, http.MethodPatch, path, nil, body, "updating card", nil)
	return err
}

// Deauthorize disconnects the app from the site
func (c *Client) Deauthorize(ctx context.Context, token platform.AccessToken, siteID int64) (string, error) {
	path := fmt.Sprintf("/v1/user/sites/%d/apps/%s/deauthorize", siteID, url.PathEscape(c.clientID))
	raw, err := c.doRequest(ctx, token, http.MethodPost, path, nil, nil, "deauthorizing app", nil)
	if err != nil {
		return "", err
	}
	var payload deauthorizePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", decodeError("deauthorizing app", err)
	}
	return payload.Status, nil
}

// NotifyPayment reports a payment to the platform
func (c *Client) NotifyPayment(ctx context.Context, token platform.AccessToken, report platform.PaymentReport) error {
	body := map[string]any{
		"name":           report.Name,
		"method":         report.Method,
		"gross_amount":   json.Number(report.GrossAmount.String()),
		"payable_amount": json.Number(report.PayableAmount.String()),
	}
	if report.Detail != "" {
		body["detail"] = report.Detail
	}
	if report.Kind != "" {
		body["kind"] = report.Kind
	}
	if report.Term != "" {
		body["term"] = report.Term
	}
	if report.Currency != "" {
		body["currency"] = report.Currency
	}
	_, err := c.doRequest(ctx, token, http.MethodPost, "/v1/admin/app/payment_notifications", nil, body, "sending payment notification", nil)
	return err
}

func convertOptions(payloads []optionPayload) []platform.RemoteProductOption {
	options := make([]platform.RemoteProductOption, 0, len(payloads))
	for _, payload := range payloads {
		options = append(options, platform.RemoteProductOption{
			OptionID: payload.OptionID.Int64(),
			Name:     payload.Name,
			Choices:  payload.ChoiceOrder,
		})
	}
	return options
}

// optionalID maps a missing or zero platform ID to nil
func optionalID(f *FlexInt64) *int64 {
	if f == nil || f.Int64() == 0 {
		return nil
	}
	v := f.Int64()
	return &v
}

func decodeError(op string, err error) error {
	return &platform.RequestError{
		Op:      op,
		Message: err.Error(),
		Err:     platform.ErrInvalidResponse,
	}
}
