package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/munimhq/munim/internal/common"
	"github.com/munimhq/munim/internal/gst"
	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

const maxUploadBytes = 16 << 20

// --- Auth ---

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name,omitempty"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.deps.Sessions.Provider().SignUp(r.Context(), req.Email, req.Password, req.CompanyName)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := s.deps.Sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.SignOut(r.Context()); err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	session := s.deps.Sessions.Session()
	if !session.SignedIn() {
		s.respondError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	s.respondJSON(w, http.StatusOK, session.User)
}

// --- Documents ---

// handleUploadDocument accepts a multipart file, runs OCR extraction, and
// stores a document pre-filled from the extracted fields.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	result := s.deps.Processor.Process(r.Context(), header.Filename, data)
	if !result.Success {
		s.respondJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	docType := model.DocumentType(r.FormValue("type"))
	if docType == "" {
		docType = model.DocTypeInvoice
	}

	doc := model.Document{
		ID:        uuid.New().String(),
		Title:     header.Filename,
		Type:      docType,
		Category:  model.CategoryForType(docType),
		Entity:    result.Data.Vendor,
		Amount:    result.Data.Amount,
		HasAmount: result.Data.HasAmount,
		Status:    model.StatusPending,
	}
	if result.Data.InvoiceNumber != "" {
		doc.Title = result.Data.InvoiceNumber
	}
	if result.Data.Date != "" {
		if issued, parseErr := time.Parse("2006-01-02", result.Data.Date); parseErr == nil {
			doc.IssueDate = issued
		}
	}
	if doc.IssueDate.IsZero() {
		doc.IssueDate = time.Now().UTC()
	}

	if err := s.deps.Storage.SaveDocument(r.Context(), &doc); err != nil {
		s.respondDomainError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"document":  doc,
		"extracted": result.Data,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	filter := model.DocumentFilter{
		Type:     model.DocumentType(r.URL.Query().Get("type")),
		Status:   model.DocumentStatus(r.URL.Query().Get("status")),
		Category: model.DocumentCategory(r.URL.Query().Get("category")),
		Entity:   r.URL.Query().Get("entity"),
	}
	docs, err := s.deps.Storage.GetDocuments(r.Context(), filter)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.Storage.GetDocumentByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

// --- Chart of accounts ---

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.deps.Storage.GetAccountCategories(r.Context())
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	description := r.URL.Query().Get("q")
	if description == "" {
		s.respondError(w, http.StatusBadRequest, "missing q parameter")
		return
	}

	category := s.deps.Classifier.Classify(description, r.URL.Query().Get("vendor"))
	if category == nil {
		s.respondJSON(w, http.StatusOK, map[string]any{"matched": false})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"matched": true, "category": category})
}

// --- Banking ---

func (s *Server) handleConnectAccount(w http.ResponseWriter, r *http.Request) {
	var account model.BankAccount
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if account.CompanyID == "" {
		account.CompanyID = s.config.CompanyID
	}
	connected, err := s.deps.Syncer.ConnectAccount(r.Context(), account)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, connected)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.deps.Storage.GetBankAccounts(r.Context(), s.config.CompanyID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, accounts)
}

type syncRequest struct {
	AccountID string `json:"account_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
		return
	}

	summary, err := s.deps.Syncer.Sync(r.Context(), req.AccountID, start, end)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := service.TransactionFilter{
		AccountID: r.URL.Query().Get("account_id"),
		Type:      model.TransactionType(r.URL.Query().Get("type")),
	}
	txns, err := s.deps.Storage.GetTransactions(r.Context(), filter)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, txns)
}

// --- Reconciliation ---

type reconcileResponse struct {
	Matches        []model.ReconciliationMatch `json:"matches"`
	Anomalies      []model.Anomaly             `json:"anomalies"`
	JournalEntries []model.JournalEntry        `json:"journal_entries"`
	Applied        int                         `json:"applied"`
}

// handleReconcile runs a reconciliation pass over stored documents and
// transactions. Auto-apply matches transition their source document to paid.
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	docs, err := s.deps.Storage.GetDocuments(r.Context(), model.DocumentFilter{})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	txns, err := s.deps.Storage.GetTransactions(r.Context(), service.TransactionFilter{})
	if err != nil {
		s.respondDomainError(w, err)
		return
	}

	result := s.deps.Recon.FindMatches(docs, txns)

	resp := reconcileResponse{
		Matches:   result.Matches,
		Anomalies: result.Anomalies,
	}
	for _, match := range result.Matches {
		if entry := s.deps.Recon.JournalEntry(match); entry != nil {
			resp.JournalEntries = append(resp.JournalEntries, *entry)
		}
		if !match.AutoApply {
			continue
		}
		if err := s.deps.Storage.UpdateDocumentStatus(r.Context(), match.Source.ID, model.StatusPaid); err != nil {
			s.respondDomainError(w, err)
			return
		}
		resp.Applied++
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// --- Invoices ---

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var inv model.Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if inv.CompanyID == "" {
		inv.CompanyID = s.config.CompanyID
	}
	created, err := s.deps.Invoices.Generate(r.Context(), inv)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.deps.Storage.GetInvoices(r.Context(), s.config.CompanyID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, invoices)
}

func (s *Server) handleSendInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.deps.Invoices.Send(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, inv)
}

func (s *Server) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.deps.Invoices.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, inv)
}

// --- Expenses ---

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var exp model.Expense
	if err := json.NewDecoder(r.Body).Decode(&exp); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if exp.CompanyID == "" {
		exp.CompanyID = s.config.CompanyID
	}
	created, err := s.deps.Expenses.Create(r.Context(), exp)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	filter := model.ExpenseFilter{
		Category: r.URL.Query().Get("category"),
		Status:   model.ExpenseStatus(r.URL.Query().Get("status")),
	}
	expenses, err := s.deps.Expenses.List(r.Context(), s.config.CompanyID, filter)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleApproveExpense(w http.ResponseWriter, r *http.Request) {
	exp, err := s.deps.Expenses.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, exp)
}

func (s *Server) handleExpenseReport(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	report, err := s.deps.Expenses.Report(r.Context(), s.config.CompanyID, period)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

// --- GST ---

func (s *Server) handleValidateGSTIN(w http.ResponseWriter, r *http.Request) {
	details, err := gst.ValidateGSTIN(r.URL.Query().Get("gstin"))
	if err != nil {
		s.respondJSON(w, http.StatusOK, map[string]any{"valid": false})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"valid": true, "details": details})
}

type generateReturnRequest struct {
	Period string `json:"period"`
}

func (s *Server) handleGenerateReturn(w http.ResponseWriter, r *http.Request) {
	var req generateReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ret, err := s.deps.GST.GenerateGSTR3B(r.Context(), req.Period, s.config.CompanyID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, ret)
}

func (s *Server) handleListReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := s.deps.GST.Returns(r.Context(), s.config.CompanyID)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, returns)
}

func (s *Server) handleFileReturn(w http.ResponseWriter, r *http.Request) {
	ret, err := s.deps.GST.FileReturn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, ret)
}

// --- Reports ---

func (s *Server) handleInvestorReport(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}

	report, err := s.deps.Reports.Build(r.Context(), s.config.CompanyID, s.config.CompanyName, start, end)
	if err != nil {
		s.respondDomainError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

// --- Misc ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps domain sentinel errors to HTTP statuses. UserError
// messages pass through; other errors are kept out of responses.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateEntry), errors.Is(err, common.ErrAlreadyFiled):
		status = http.StatusConflict
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrNotSignedIn):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrInvalidAccount),
		errors.Is(err, common.ErrInvalidGSTIN),
		errors.Is(err, common.ErrInvalidPeriod):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrFeedUnavailable), errors.Is(err, common.ErrFilingFailed):
		status = http.StatusBadGateway
	}

	var userErr *common.UserError
	if errors.As(err, &userErr) {
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		s.respondError(w, status, userErr.UserMessage)
		return
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		s.respondError(w, status, "internal error")
		return
	}
	s.respondError(w, status, err.Error())
}
