// Package marketplace implements the outbound gateways against the
// marketplace service's internal REST API. Orders, listings, and transporter
// profiles are owned there; the dispatch core only reads projections and
// writes status cascades back.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/transporter"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const requestTimeout = 10 * time.Second

// Client is the shared HTTP transport for all marketplace gateways.
// Service-to-service calls authenticate with a static bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a marketplace API client.
func NewClient(baseURL, serviceToken string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      serviceToken,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case http.StatusNotFound:
		return errs.ErrObjectNotFound
	default:
		return fmt.Errorf("marketplace: GET %s: unexpected status %d", path, resp.StatusCode)
	}
}

func (c *Client) patch(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return errs.ErrObjectNotFound
	default:
		return fmt.Errorf("marketplace: PATCH %s: unexpected status %d", path, resp.StatusCode)
	}
}

// HTTPOrderGateway resolves orders through the marketplace API.
type HTTPOrderGateway struct {
	client *Client
}

// NewHTTPOrderGateway creates an order gateway on the shared client.
func NewHTTPOrderGateway(client *Client) *HTTPOrderGateway {
	return &HTTPOrderGateway{client: client}
}

type orderDTO struct {
	ID             string `json:"id"`
	ListingID      string `json:"listingId"`
	FarmerID       string `json:"farmerId"`
	BuyerID        string `json:"buyerId"`
	Responsibility string `json:"deliveryResponsibility"`
	Status         string `json:"status"`
}

// Get retrieves the order projection.
func (g *HTTPOrderGateway) Get(ctx context.Context, orderID kernel.UUID) (ports.Order, error) {
	var dto orderDTO
	if err := g.client.get(ctx, "/internal/v1/orders/"+orderID.String(), &dto); err != nil {
		if err == errs.ErrObjectNotFound {
			return ports.Order{}, errs.NewObjectNotFoundError("order", orderID)
		}
		return ports.Order{}, err
	}

	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return ports.Order{}, fmt.Errorf("marketplace: order id: %w", err)
	}
	listingID, err := kernel.UUIDFromString(dto.ListingID)
	if err != nil {
		return ports.Order{}, fmt.Errorf("marketplace: listing id: %w", err)
	}
	farmerID, err := kernel.UUIDFromString(dto.FarmerID)
	if err != nil {
		return ports.Order{}, fmt.Errorf("marketplace: farmer id: %w", err)
	}
	buyerID, err := kernel.UUIDFromString(dto.BuyerID)
	if err != nil {
		return ports.Order{}, fmt.Errorf("marketplace: buyer id: %w", err)
	}

	return ports.Order{
		ID:             id,
		ListingID:      listingID,
		FarmerID:       farmerID,
		BuyerID:        buyerID,
		Responsibility: ports.DeliveryResponsibility(dto.Responsibility),
		Status:         dto.Status,
	}, nil
}

// SetStatus writes the order status back.
func (g *HTTPOrderGateway) SetStatus(ctx context.Context, orderID kernel.UUID, status string) error {
	err := g.client.patch(ctx, "/internal/v1/orders/"+orderID.String()+"/status",
		map[string]string{"status": status})
	if err == errs.ErrObjectNotFound {
		return errs.NewObjectNotFoundError("order", orderID)
	}
	return err
}

// HTTPListingGateway writes listing statuses through the marketplace API.
type HTTPListingGateway struct {
	client *Client
}

// NewHTTPListingGateway creates a listing gateway on the shared client.
func NewHTTPListingGateway(client *Client) *HTTPListingGateway {
	return &HTTPListingGateway{client: client}
}

// SetStatus writes the listing status back.
func (g *HTTPListingGateway) SetStatus(ctx context.Context, listingID kernel.UUID, status string) error {
	err := g.client.patch(ctx, "/internal/v1/listings/"+listingID.String()+"/status",
		map[string]string{"status": status})
	if err == errs.ErrObjectNotFound {
		return errs.NewObjectNotFoundError("listing", listingID)
	}
	return err
}

// HTTPProfileGateway resolves user default addresses through the
// marketplace API. Deal creation uses it when the caller omits a route
// endpoint.
type HTTPProfileGateway struct {
	client *Client
}

// NewHTTPProfileGateway creates a profile gateway on the shared client.
func NewHTTPProfileGateway(client *Client) *HTTPProfileGateway {
	return &HTTPProfileGateway{client: client}
}

type addressDTO struct {
	Text      string   `json:"text"`
	Latitude  *float64 `json:"lat"`
	Longitude *float64 `json:"lng"`
}

// GetDefaultAddress retrieves the user's registered address. A profile
// without one maps to nil, not an error.
func (g *HTTPProfileGateway) GetDefaultAddress(
	ctx context.Context,
	userID kernel.UUID,
) (*ports.RegisteredAddress, error) {
	var dto addressDTO
	if err := g.client.get(ctx, "/internal/v1/users/"+userID.String()+"/default-address", &dto); err != nil {
		if err == errs.ErrObjectNotFound {
			return nil, nil
		}
		return nil, err
	}

	if dto.Text == "" {
		return nil, nil
	}

	return &ports.RegisteredAddress{
		Text:      dto.Text,
		Latitude:  dto.Latitude,
		Longitude: dto.Longitude,
	}, nil
}

// HTTPTransporterGateway resolves transporter profiles through the
// marketplace API.
type HTTPTransporterGateway struct {
	client *Client
}

// NewHTTPTransporterGateway creates a transporter gateway on the shared
// client.
func NewHTTPTransporterGateway(client *Client) *HTTPTransporterGateway {
	return &HTTPTransporterGateway{client: client}
}

type transporterDTO struct {
	ID             string   `json:"id"`
	VehicleType    string   `json:"vehicleType"`
	ServiceRangeKm float64  `json:"serviceRangeKm"`
	LastLat        *float64 `json:"lastLat"`
	LastLng        *float64 `json:"lastLng"`
}

// Get retrieves a transporter's profile.
func (g *HTTPTransporterGateway) Get(ctx context.Context, transporterID kernel.UUID) (*transporter.Profile, error) {
	var dto transporterDTO
	if err := g.client.get(ctx, "/internal/v1/transporters/"+transporterID.String(), &dto); err != nil {
		if err == errs.ErrObjectNotFound {
			return nil, errs.NewObjectNotFoundError("transporter", transporterID)
		}
		return nil, err
	}

	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, fmt.Errorf("marketplace: transporter id: %w", err)
	}

	var lastKnown *kernel.GeoPoint
	if dto.LastLat != nil && dto.LastLng != nil {
		point, err := kernel.NewGeoPoint(*dto.LastLat, *dto.LastLng)
		if err != nil {
			return nil, fmt.Errorf("marketplace: transporter position: %w", err)
		}
		lastKnown = &point
	}

	return transporter.NewProfile(id, dto.VehicleType, dto.ServiceRangeKm, lastKnown)
}
