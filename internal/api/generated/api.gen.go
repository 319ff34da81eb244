// Пакет generated — типы и chi-маршрутизация по контракту openapi.yaml.
// Файл повторяет раскладку oapi-codegen (types, chi-server), но ведётся вручную:
// при изменении openapi.yaml правится вместе с ним, расхождение ловит TestRoutesMatchContract.
package generated

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// Defines values for ErrorErrorCode.
const (
	CONFLICT        ErrorErrorCode = "CONFLICT"
	DATABASEERROR   ErrorErrorCode = "DATABASE_ERROR"
	FORBIDDEN       ErrorErrorCode = "FORBIDDEN"
	INTERNALERROR   ErrorErrorCode = "INTERNAL_ERROR"
	NOTFOUND        ErrorErrorCode = "NOT_FOUND"
	UNAUTHORIZED    ErrorErrorCode = "UNAUTHORIZED"
	VALIDATIONERROR ErrorErrorCode = "VALIDATION_ERROR"
)

// Agent defines model for Agent.
type Agent struct {
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
	Id        int64     `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AgentInput defines model for AgentInput.
type AgentInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AgentList defines model for AgentList.
type AgentList struct {
	Items []Agent `json:"items"`
	Total int     `json:"total"`
}

// Client defines model for Client.
type Client struct {
	Bucket    string    `json:"bucket"`
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
	Id        int64     `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientInput defines model for ClientInput.
type ClientInput struct {
	Bucket string `json:"bucket"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// ClientList defines model for ClientList.
type ClientList struct {
	Items []Client `json:"items"`
	Total int      `json:"total"`
}

// Created defines model for Created.
type Created struct {
	Id int64 `json:"id"`
}

// Error defines model for Error.
type Error struct {
	Error struct {
		Code      ErrorErrorCode `json:"code"`
		Message   string         `json:"message"`
		RequestId *string        `json:"request_id,omitempty"`
	} `json:"error"`
}

// ErrorErrorCode defines model for Error.Error.Code.
type ErrorErrorCode string

// PublicConfig defines model for PublicConfig.
type PublicConfig map[string]interface{}

// SftpCredential defines model for SftpCredential.
type SftpCredential struct {
	BucketName  string     `json:"bucket_name"`
	ClientId    int64      `json:"client_id"`
	CreatedAt   time.Time  `json:"created_at"`
	Fingerprint string     `json:"fingerprint"`
	Id          int64      `json:"id"`
	KeyVersion  int        `json:"key_version"`
	RoleArn     string     `json:"role_arn"`
	RotatedAt   *time.Time `json:"rotated_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Username    string     `json:"username"`
}

// SftpList defines model for SftpList.
type SftpList struct {
	Items []SftpCredential `json:"items"`
	Total int              `json:"total"`
}

// SftpProvisionRequest defines model for SftpProvisionRequest.
type SftpProvisionRequest struct {
	BucketName string `json:"bucket_name"`
	RoleArn    string `json:"role_arn"`
	Username   string `json:"username"`
}

// SftpProvisioned defines model for SftpProvisioned.
type SftpProvisioned struct {
	BucketName  string `json:"bucket_name"`
	ClientId    int64  `json:"client_id"`
	Fingerprint string `json:"fingerprint"`
	Id          int64  `json:"id"`
	KeyVersion  int    `json:"key_version"`

	// PrivateKey PEM PKCS#8
	PrivateKey string `json:"private_key"`

	// PublicKey ssh-rsa <base64>
	PublicKey string `json:"public_key"`
	RoleArn   string `json:"role_arn"`
	Username  string `json:"username"`
}

// SftpRotated defines model for SftpRotated.
type SftpRotated struct {
	ClientId    int64     `json:"client_id"`
	Fingerprint string    `json:"fingerprint"`
	KeyVersion  int       `json:"key_version"`
	PrivateKey  string    `json:"private_key"`
	PublicKey   string    `json:"public_key"`
	RotatedAt   time.Time `json:"rotated_at"`
}

// SftpUpdate defines model for SftpUpdate.
type SftpUpdate struct {
	BucketName *string `json:"bucket_name,omitempty"`
	RoleArn    *string `json:"role_arn,omitempty"`
	Username   *string `json:"username,omitempty"`
}

// Vendor defines model for Vendor.
type Vendor struct {
	ClientId    int64     `json:"client_id"`
	CreatedAt   time.Time `json:"created_at"`
	HasPassword bool      `json:"has_password"`
	HasSshKey   bool      `json:"has_ssh_key"`
	Host        string    `json:"host"`
	Id          int64     `json:"id"`
	Name        string    `json:"name"`
	Port        int       `json:"port"`
	UpdatedAt   time.Time `json:"updated_at"`
	Username    *string   `json:"username,omitempty"`
}

// VendorInput defines model for VendorInput.
type VendorInput struct {
	Host           string  `json:"host"`
	Name           string  `json:"name"`
	Password       *string `json:"password,omitempty"`
	Port           int     `json:"port"`
	SshKey         *string `json:"ssh_key,omitempty"`
	SshKeyPassword *string `json:"ssh_key_password,omitempty"`
	Username       *string `json:"username,omitempty"`
}

// VendorList defines model for VendorList.
type VendorList struct {
	Items []Vendor `json:"items"`
	Total int      `json:"total"`
}

// AgentId defines model for AgentId.
type AgentId = int64

// ClientId defines model for ClientId.
type ClientId = int64

// ClientIdFilter defines model for ClientIdFilter.
type ClientIdFilter = int64

// NameFilter defines model for NameFilter.
type NameFilter = string

// VendorId defines model for VendorId.
type VendorId = int64

// ListAgentsParams defines parameters for ListAgents.
type ListAgentsParams struct {
	Name *NameFilter `form:"name,omitempty" json:"name,omitempty"`
}

// ListClientsParams defines parameters for ListClients.
type ListClientsParams struct {
	Name  *NameFilter `form:"name,omitempty" json:"name,omitempty"`
	Email *string     `form:"email,omitempty" json:"email,omitempty"`
}

// ListSftpParams defines parameters for ListSftp.
type ListSftpParams struct {
	ClientId *ClientIdFilter `form:"client_id,omitempty" json:"client_id,omitempty"`
}

// ListVendorsParams defines parameters for ListVendors.
type ListVendorsParams struct {
	ClientId *ClientIdFilter `form:"client_id,omitempty" json:"client_id,omitempty"`
	Name     *NameFilter     `form:"name,omitempty" json:"name,omitempty"`
}

// CreateAgentJSONRequestBody defines body for CreateAgent for application/json ContentType.
type CreateAgentJSONRequestBody = AgentInput

// UpdateAgentJSONRequestBody defines body for UpdateAgent for application/json ContentType.
type UpdateAgentJSONRequestBody = AgentInput

// CreateClientJSONRequestBody defines body for CreateClient for application/json ContentType.
type CreateClientJSONRequestBody = ClientInput

// UpdateClientJSONRequestBody defines body for UpdateClient for application/json ContentType.
type UpdateClientJSONRequestBody = ClientInput

// ProvisionSftpJSONRequestBody defines body for ProvisionSftp for application/json ContentType.
type ProvisionSftpJSONRequestBody = SftpProvisionRequest

// AddVendorJSONRequestBody defines body for AddVendor for application/json ContentType.
type AddVendorJSONRequestBody = VendorInput

// UpdateVendorJSONRequestBody defines body for UpdateVendor for application/json ContentType.
type UpdateVendorJSONRequestBody = VendorInput

// UpdateSftpJSONRequestBody defines body for UpdateSftp for application/json ContentType.
type UpdateSftpJSONRequestBody = SftpUpdate

// ServerInterface represents all server handlers.
type ServerInterface interface {

	// (GET /api/v1/agents)
	ListAgents(w http.ResponseWriter, r *http.Request, params ListAgentsParams)

	// (POST /api/v1/agents)
	CreateAgent(w http.ResponseWriter, r *http.Request)

	// (DELETE /api/v1/agents/{id})
	DeleteAgent(w http.ResponseWriter, r *http.Request, id AgentId)

	// (GET /api/v1/agents/{id})
	GetAgent(w http.ResponseWriter, r *http.Request, id AgentId)

	// (PUT /api/v1/agents/{id})
	UpdateAgent(w http.ResponseWriter, r *http.Request, id AgentId)

	// (GET /api/v1/agents/{id}/clients)
	ListAgentClients(w http.ResponseWriter, r *http.Request, id AgentId)

	// (PUT /api/v1/agents/{id}/clients/{clientId})
	AssignAgentClient(w http.ResponseWriter, r *http.Request, id AgentId, clientId int64)

	// (GET /api/v1/clients)
	ListClients(w http.ResponseWriter, r *http.Request, params ListClientsParams)

	// (POST /api/v1/clients)
	CreateClient(w http.ResponseWriter, r *http.Request)

	// (DELETE /api/v1/clients/{id})
	DeleteClient(w http.ResponseWriter, r *http.Request, id ClientId)

	// (GET /api/v1/clients/{id})
	GetClient(w http.ResponseWriter, r *http.Request, id ClientId)

	// (PUT /api/v1/clients/{id})
	UpdateClient(w http.ResponseWriter, r *http.Request, id ClientId)

	// (POST /api/v1/clients/{id}/sftp)
	ProvisionSftp(w http.ResponseWriter, r *http.Request, id ClientId)

	// (POST /api/v1/clients/{id}/sftp/rotate)
	RotateSftpKeys(w http.ResponseWriter, r *http.Request, id ClientId)

	// (POST /api/v1/clients/{id}/vendors)
	AddVendor(w http.ResponseWriter, r *http.Request, id ClientId)

	// (PUT /api/v1/clients/{id}/vendors/{vendorId})
	UpdateVendor(w http.ResponseWriter, r *http.Request, id ClientId, vendorId int64)

	// (GET /api/v1/config)
	GetConfig(w http.ResponseWriter, r *http.Request)

	// (GET /api/v1/sftp)
	ListSftp(w http.ResponseWriter, r *http.Request, params ListSftpParams)

	// (DELETE /api/v1/sftp/{id})
	DeleteSftp(w http.ResponseWriter, r *http.Request, id int64)

	// (GET /api/v1/sftp/{id})
	GetSftp(w http.ResponseWriter, r *http.Request, id int64)

	// (PUT /api/v1/sftp/{id})
	UpdateSftp(w http.ResponseWriter, r *http.Request, id int64)

	// (GET /api/v1/vendors)
	ListVendors(w http.ResponseWriter, r *http.Request, params ListVendorsParams)

	// (DELETE /api/v1/vendors/{id})
	DeleteVendor(w http.ResponseWriter, r *http.Request, id VendorId)

	// (GET /api/v1/vendors/{id})
	GetVendor(w http.ResponseWriter, r *http.Request, id VendorId)

	// (GET /health/live)
	HealthLive(w http.ResponseWriter, r *http.Request)

	// (GET /health/ready)
	HealthReady(w http.ResponseWriter, r *http.Request)

	// (GET /metrics)
	GetMetrics(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareFunc func(http.Handler) http.Handler

// bindPathInt64 binds a required int64 path parameter.
func (siw *ServerInterfaceWrapper) bindPathInt64(w http.ResponseWriter, r *http.Request, name string, dest *int64) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}
	return true
}

// serve applies the handler middlewares and serves the request.
func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	handler := http.Handler(fn)

	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}

	handler.ServeHTTP(w, r)
}

// ListAgents operation middleware
func (siw *ServerInterfaceWrapper) ListAgents(w http.ResponseWriter, r *http.Request) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ListAgentsParams

	// ------------- Optional query parameter "name" -------------

	err = runtime.BindQueryParameter("form", true, false, "name", r.URL.Query(), &params.Name)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "name", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListAgents(w, r, params)
	})
}

// CreateAgent operation middleware
func (siw *ServerInterfaceWrapper) CreateAgent(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreateAgent)
}

// DeleteAgent operation middleware
func (siw *ServerInterfaceWrapper) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id AgentId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.DeleteAgent(w, r, id)
	})
}

// GetAgent operation middleware
func (siw *ServerInterfaceWrapper) GetAgent(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id AgentId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetAgent(w, r, id)
	})
}

// UpdateAgent operation middleware
func (siw *ServerInterfaceWrapper) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id AgentId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.UpdateAgent(w, r, id)
	})
}

// ListAgentClients operation middleware
func (siw *ServerInterfaceWrapper) ListAgentClients(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id AgentId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListAgentClients(w, r, id)
	})
}

// AssignAgentClient operation middleware
func (siw *ServerInterfaceWrapper) AssignAgentClient(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id AgentId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	// ------------- Path parameter "clientId" -------------
	var clientId int64
	if !siw.bindPathInt64(w, r, "clientId", &clientId) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.AssignAgentClient(w, r, id, clientId)
	})
}

// ListClients operation middleware
func (siw *ServerInterfaceWrapper) ListClients(w http.ResponseWriter, r *http.Request) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ListClientsParams

	// ------------- Optional query parameter "name" -------------

	err = runtime.BindQueryParameter("form", true, false, "name", r.URL.Query(), &params.Name)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "name", Err: err})
		return
	}

	// ------------- Optional query parameter "email" -------------

	err = runtime.BindQueryParameter("form", true, false, "email", r.URL.Query(), &params.Email)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "email", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListClients(w, r, params)
	})
}

// CreateClient operation middleware
func (siw *ServerInterfaceWrapper) CreateClient(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.CreateClient)
}

// DeleteClient operation middleware
func (siw *ServerInterfaceWrapper) DeleteClient(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id ClientId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.DeleteClient(w, r, id)
	})
}

// GetClient operation middleware
func (siw *ServerInterfaceWrapper) GetClient(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id ClientId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetClient(w, r, id)
	})
}

// UpdateClient operation middleware
func (siw *ServerInterfaceWrapper) UpdateClient(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id ClientId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.UpdateClient(w, r, id)
	})
}

// ProvisionSftp operation middleware
func (siw *ServerInterfaceWrapper) ProvisionSftp(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id ClientId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ProvisionSftp(w, r, id)
	})
}

// RotateSftpKeys operation middleware
func (siw *ServerInterfaceWrapper) RotateSftpKeys(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id ClientId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.RotateSftpKeys(w, r, id)
	})
}

// AddVendor operation middleware
func (siw *ServerInterfaceWrapper) AddVendor(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id ClientId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.AddVendor(w, r, id)
	})
}

// UpdateVendor operation middleware
func (siw *ServerInterfaceWrapper) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id ClientId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	// ------------- Path parameter "vendorId" -------------
	var vendorId int64
	if !siw.bindPathInt64(w, r, "vendorId", &vendorId) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.UpdateVendor(w, r, id, vendorId)
	})
}

// GetConfig operation middleware
func (siw *ServerInterfaceWrapper) GetConfig(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetConfig)
}

// ListSftp operation middleware
func (siw *ServerInterfaceWrapper) ListSftp(w http.ResponseWriter, r *http.Request) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ListSftpParams

	// ------------- Optional query parameter "client_id" -------------

	err = runtime.BindQueryParameter("form", true, false, "client_id", r.URL.Query(), &params.ClientId)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "client_id", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListSftp(w, r, params)
	})
}

// DeleteSftp operation middleware
func (siw *ServerInterfaceWrapper) DeleteSftp(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id int64
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.DeleteSftp(w, r, id)
	})
}

// GetSftp operation middleware
func (siw *ServerInterfaceWrapper) GetSftp(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id int64
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetSftp(w, r, id)
	})
}

// UpdateSftp operation middleware
func (siw *ServerInterfaceWrapper) UpdateSftp(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id int64
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.UpdateSftp(w, r, id)
	})
}

// ListVendors operation middleware
func (siw *ServerInterfaceWrapper) ListVendors(w http.ResponseWriter, r *http.Request) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ListVendorsParams

	// ------------- Optional query parameter "client_id" -------------

	err = runtime.BindQueryParameter("form", true, false, "client_id", r.URL.Query(), &params.ClientId)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "client_id", Err: err})
		return
	}

	// ------------- Optional query parameter "name" -------------

	err = runtime.BindQueryParameter("form", true, false, "name", r.URL.Query(), &params.Name)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "name", Err: err})
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ListVendors(w, r, params)
	})
}

// DeleteVendor operation middleware
func (siw *ServerInterfaceWrapper) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id VendorId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.DeleteVendor(w, r, id)
	})
}

// GetVendor operation middleware
func (siw *ServerInterfaceWrapper) GetVendor(w http.ResponseWriter, r *http.Request) {
	// ------------- Path parameter "id" -------------
	var id VendorId
	if !siw.bindPathInt64(w, r, "id", &id) {
		return
	}

	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetVendor(w, r, id)
	})
}

// HealthLive operation middleware
func (siw *ServerInterfaceWrapper) HealthLive(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.HealthLive)
}

// HealthReady operation middleware
func (siw *ServerInterfaceWrapper) HealthReady(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.HealthReady)
}

// GetMetrics operation middleware
func (siw *ServerInterfaceWrapper) GetMetrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.GetMetrics)
}

type UnescapedCookieParamError struct {
	ParamName string
	Err       error
}

func (e *UnescapedCookieParamError) Error() string {
	return fmt.Sprintf("error unescaping cookie parameter '%s'", e.ParamName)
}

func (e *UnescapedCookieParamError) Unwrap() error {
	return e.Err
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates http.Handler with routing matching OpenAPI spec based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

func HandlerFromMuxWithBaseURL(si ServerInterface, r chi.Router, baseURL string) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseURL:    baseURL,
		BaseRouter: r,
	})
}

// HandlerWithOptions creates http.Handler with additional options
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/agents", wrapper.ListAgents)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/v1/agents", wrapper.CreateAgent)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/api/v1/agents/{id}", wrapper.DeleteAgent)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/agents/{id}", wrapper.GetAgent)
	})
	r.Group(func(r chi.Router) {
		r.Put(options.BaseURL+"/api/v1/agents/{id}", wrapper.UpdateAgent)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/agents/{id}/clients", wrapper.ListAgentClients)
	})
	r.Group(func(r chi.Router) {
		r.Put(options.BaseURL+"/api/v1/agents/{id}/clients/{clientId}", wrapper.AssignAgentClient)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/clients", wrapper.ListClients)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/v1/clients", wrapper.CreateClient)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/api/v1/clients/{id}", wrapper.DeleteClient)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/clients/{id}", wrapper.GetClient)
	})
	r.Group(func(r chi.Router) {
		r.Put(options.BaseURL+"/api/v1/clients/{id}", wrapper.UpdateClient)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/v1/clients/{id}/sftp", wrapper.ProvisionSftp)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/v1/clients/{id}/sftp/rotate", wrapper.RotateSftpKeys)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/api/v1/clients/{id}/vendors", wrapper.AddVendor)
	})
	r.Group(func(r chi.Router) {
		r.Put(options.BaseURL+"/api/v1/clients/{id}/vendors/{vendorId}", wrapper.UpdateVendor)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/config", wrapper.GetConfig)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/sftp", wrapper.ListSftp)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/api/v1/sftp/{id}", wrapper.DeleteSftp)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/sftp/{id}", wrapper.GetSftp)
	})
	r.Group(func(r chi.Router) {
		r.Put(options.BaseURL+"/api/v1/sftp/{id}", wrapper.UpdateSftp)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/vendors", wrapper.ListVendors)
	})
	r.Group(func(r chi.Router) {
		r.Delete(options.BaseURL+"/api/v1/vendors/{id}", wrapper.DeleteVendor)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/vendors/{id}", wrapper.GetVendor)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health/live", wrapper.HealthLive)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health/ready", wrapper.HealthReady)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/metrics", wrapper.GetMetrics)
	})

	return r
}
