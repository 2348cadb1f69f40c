package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/temirov/tempo/internal/payload"
)

const (
	worklogCollectionPathTemplateConstant = "/rest/api/2/issue/%s/worklog"
	worklogItemPathTemplateConstant       = "/rest/api/2/issue/%s/worklog/%s"
	adjustEstimateQueryParameterConstant  = "adjustEstimate"
	authorizationHeaderConstant           = "Authorization"
	acceptHeaderConstant                  = "Accept"
	contentTypeHeaderConstant             = "Content-Type"
	bearerTemplateConstant                = "Bearer %s"
	jsonMediaTypeConstant                 = "application/json"
	responseBodyLimitBytesConstant        = 64 * 1024
	buildRequestErrorTemplateConstant     = "build %s request for %s: %w"
	transportErrorTemplateConstant        = "%s %s: %w"
	encodeWorklogErrorTemplateConstant    = "encode worklog for %s: %w"
	decodeWorklogErrorTemplateConstant    = "decode worklog response for %s: %w"
	statusErrorTemplateConstant           = "tracker responded %d for %s %s: %s"
	invalidBaseURLTemplateConstant        = "%w: %w"
	incompleteBaseURLTemplateConstant     = "%w: %s"
	baseURLTrimCharactersConstant         = "/"

	// DefaultAdjustEstimate leaves the remaining estimate of the issue untouched.
	DefaultAdjustEstimate = "leave"
	// DefaultRequestTimeout bounds every tracker request.
	DefaultRequestTimeout = 30 * time.Second
)

var (
	// ErrBaseURLRequired indicates a missing tracker base URL.
	ErrBaseURLRequired = errors.New("tracker base URL must be provided")
	// ErrTokenRequired indicates a missing tracker token.
	ErrTokenRequired = errors.New("tracker token must be provided")
	// ErrIssueKeyRequired indicates an attempt to address a worklog without an issue.
	ErrIssueKeyRequired = errors.New("issue key must be provided")
	// ErrWorklogIDRequired indicates an attempt to delete a worklog without its identifier.
	ErrWorklogIDRequired = errors.New("worklog id must be provided")
)

// Configuration holds the tracker settings.
type Configuration struct {
	BaseURL        string        `mapstructure:"base_url"`
	TokenSource    string        `mapstructure:"token_source"`
	StandupIssue   string        `mapstructure:"standup_issue"`
	PtoIssue       string        `mapstructure:"pto_issue"`
	AdjustEstimate string        `mapstructure:"adjust_estimate"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// IssueKeys returns the fixed issues for standup and vacation entries.
func (configuration Configuration) IssueKeys() payload.IssueKeys {
	return payload.IssueKeys{Standup: configuration.StandupIssue, Pto: configuration.PtoIssue}.Sanitize()
}

// HTTPClient performs HTTP requests.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// Response describes the outcome of a single tracker call.
type Response struct {
	StatusCode int
	WorklogID  string
	Body       string
}

// Accepted reports whether the tracker answered with a 2xx status.
func (response Response) Accepted() bool {
	return response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices
}

// StatusError describes a non-2xx tracker answer.
type StatusError struct {
	Method   string
	Target   string
	Response Response
}

// Error describes the rejected call.
func (statusError StatusError) Error() string {
	return fmt.Sprintf(statusErrorTemplateConstant, statusError.Response.StatusCode, statusError.Method, statusError.Target, strings.TrimSpace(statusError.Response.Body))
}

type worklogRequestBody struct {
	Comment          string `json:"comment"`
	Started          string `json:"started"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
}

type worklogResponseBody struct {
	ID string `json:"id"`
}

// Client talks to the tracker REST API.
type Client struct {
	baseURL        *url.URL
	token          string
	adjustEstimate string
	httpClient     HTTPClient
}

// NewClient validates the configuration and constructs a Client. A nil httpClient is replaced by an
// http.Client bounded by the configured timeout.
func NewClient(configuration Configuration, token string, httpClient HTTPClient) (*Client, error) {
	trimmedBaseURL := strings.TrimRight(strings.TrimSpace(configuration.BaseURL), baseURLTrimCharactersConstant)
	if len(trimmedBaseURL) == 0 {
		return nil, ErrBaseURLRequired
	}
	parsedBaseURL, parseError := url.Parse(trimmedBaseURL)
	if parseError != nil {
		return nil, fmt.Errorf(invalidBaseURLTemplateConstant, ErrBaseURLRequired, parseError)
	}
	if len(parsedBaseURL.Scheme) == 0 || len(parsedBaseURL.Host) == 0 {
		return nil, fmt.Errorf(incompleteBaseURLTemplateConstant, ErrBaseURLRequired, trimmedBaseURL)
	}

	trimmedToken := strings.TrimSpace(token)
	if len(trimmedToken) == 0 {
		return nil, ErrTokenRequired
	}

	adjustEstimate := strings.TrimSpace(configuration.AdjustEstimate)
	if len(adjustEstimate) == 0 {
		adjustEstimate = DefaultAdjustEstimate
	}

	if httpClient == nil {
		timeout := configuration.Timeout
		if timeout <= 0 {
			timeout = DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:        parsedBaseURL,
		token:          trimmedToken,
		adjustEstimate: adjustEstimate,
		httpClient:     httpClient,
	}, nil
}

// AddWorklog posts a record to its issue. A non-2xx answer is returned as a StatusError alongside
// the Response; transport failures return a plain wrapped error.
func (client *Client) AddWorklog(requestContext context.Context, record payload.Record) (Response, error) {
	issueKey := strings.TrimSpace(record.IssueKey)
	if len(issueKey) == 0 {
		return Response{}, ErrIssueKeyRequired
	}

	encodedBody, encodeError := json.Marshal(worklogRequestBody{
		Comment:          record.Comment,
		Started:          record.Started,
		TimeSpentSeconds: record.TimeSpentSeconds,
	})
	if encodeError != nil {
		return Response{}, fmt.Errorf(encodeWorklogErrorTemplateConstant, issueKey, encodeError)
	}

	target := client.endpoint(fmt.Sprintf(worklogCollectionPathTemplateConstant, url.PathEscape(issueKey)))
	response, sendError := client.send(requestContext, http.MethodPost, target, encodedBody)
	if sendError != nil {
		return response, sendError
	}

	if len(response.Body) > 0 {
		var decoded worklogResponseBody
		if decodeError := json.Unmarshal([]byte(response.Body), &decoded); decodeError != nil {
			return response, fmt.Errorf(decodeWorklogErrorTemplateConstant, issueKey, decodeError)
		}
		response.WorklogID = decoded.ID
	}
	return response, nil
}

// DeleteWorklog removes a previously published worklog.
func (client *Client) DeleteWorklog(requestContext context.Context, issueKey string, worklogID string) (Response, error) {
	trimmedIssueKey := strings.TrimSpace(issueKey)
	if len(trimmedIssueKey) == 0 {
		return Response{}, ErrIssueKeyRequired
	}
	trimmedWorklogID := strings.TrimSpace(worklogID)
	if len(trimmedWorklogID) == 0 {
		return Response{}, ErrWorklogIDRequired
	}

	target := client.endpoint(fmt.Sprintf(worklogItemPathTemplateConstant, url.PathEscape(trimmedIssueKey), url.PathEscape(trimmedWorklogID)))
	return client.send(requestContext, http.MethodDelete, target, nil)
}

func (client *Client) endpoint(path string) string {
	endpoint := *client.baseURL
	endpoint.Path = strings.TrimRight(endpoint.Path, baseURLTrimCharactersConstant) + path
	query := url.Values{}
	query.Set(adjustEstimateQueryParameterConstant, client.adjustEstimate)
	endpoint.RawQuery = query.Encode()
	return endpoint.String()
}

func (client *Client) send(requestContext context.Context, method string, target string, body []byte) (Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	request, requestError := http.NewRequestWithContext(requestContext, method, target, bodyReader)
	if requestError != nil {
		return Response{}, fmt.Errorf(buildRequestErrorTemplateConstant, method, target, requestError)
	}
	request.Header.Set(authorizationHeaderConstant, fmt.Sprintf(bearerTemplateConstant, client.token))
	request.Header.Set(acceptHeaderConstant, jsonMediaTypeConstant)
	if body != nil {
		request.Header.Set(contentTypeHeaderConstant, jsonMediaTypeConstant)
	}

	httpResponse, sendError := client.httpClient.Do(request)
	if sendError != nil {
		return Response{}, fmt.Errorf(transportErrorTemplateConstant, method, target, sendError)
	}
	defer httpResponse.Body.Close()

	responseBody, readError := io.ReadAll(io.LimitReader(httpResponse.Body, responseBodyLimitBytesConstant))
	if readError != nil {
		return Response{StatusCode: httpResponse.StatusCode}, fmt.Errorf(transportErrorTemplateConstant, method, target, readError)
	}

	response := Response{StatusCode: httpResponse.StatusCode, Body: string(responseBody)}
	if !response.Accepted() {
		return response, StatusError{Method: method, Target: target, Response: response}
	}
	return response, nil
}
