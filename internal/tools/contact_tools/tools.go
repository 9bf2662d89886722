package contact_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/graphdesk/graphdesk/internal/contacts"
	"github.com/graphdesk/graphdesk/internal/instrumentation"
	"github.com/graphdesk/graphdesk/internal/server"
	"github.com/graphdesk/graphdesk/internal/tools/common"
)

// clientForAccount returns the contacts client for an account, creating it
// on first use. A non-nil result is returned when the account is not usable.
func clientForAccount(ctx context.Context, sc *server.ServerContext, account string) (*contacts.Client, *mcp.CallToolResult) {
	if client := sc.ContactsClientForAccount(account); client != nil {
		return client, nil
	}

	if !sc.TokenProvider().HasTokenForAccount(account) {
		return nil, common.MissingAuthResult(account)
	}

	client, err := contacts.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create contacts client for account %s: %v", account, err))
	}
	sc.SetContactsClientForAccount(account, client)
	return client, nil
}

func addTool(s *mcpserver.MCPServer, sc *server.ServerContext, tool mcp.Tool, operation string,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)) {
	s.AddTool(tool, common.InstrumentedToolHandlerWithService(tool.Name, instrumentation.ServiceContacts, operation, sc, handler))
}

// RegisterContactTools registers all contact-related tools with the MCP
// server. Write operations are skipped when readOnly is set.
func RegisterContactTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listContactsTool := mcp.NewTool("contact_list_contacts",
		mcp.WithDescription("List the account's contacts ordered by display name"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of contacts to return (default: 50)"),
		),
	)
	addTool(s, sc, listContactsTool, instrumentation.OperationList, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListContacts(ctx, request, sc)
	})

	searchContactsTool := mcp.NewTool("contact_search_contacts",
		mcp.WithDescription("Search contacts by free text"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text (matches names, addresses, and companies)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of contacts to return (default: 50)"),
		),
	)
	addTool(s, sc, searchContactsTool, instrumentation.OperationList, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSearchContacts(ctx, request, sc)
	})

	getContactTool := mcp.NewTool("contact_get_contact",
		mcp.WithDescription("Read a single contact"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("contactId",
			mcp.Required(),
			mcp.Description("The ID of the contact"),
		),
	)
	addTool(s, sc, getContactTool, instrumentation.OperationGet, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetContact(ctx, request, sc)
	})

	if readOnly {
		return nil
	}

	createContactTool := mcp.NewTool("contact_create_contact",
		mcp.WithDescription("Create a new contact"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("givenName",
			mcp.Required(),
			mcp.Description("First name"),
		),
		mcp.WithString("surname",
			mcp.Description("Last name"),
		),
		mcp.WithString("email",
			mcp.Description("Email address"),
		),
		mcp.WithString("mobilePhone",
			mcp.Description("Mobile phone number"),
		),
		mcp.WithString("companyName",
			mcp.Description("Company name"),
		),
		mcp.WithString("jobTitle",
			mcp.Description("Job title"),
		),
	)
	addTool(s, sc, createContactTool, instrumentation.OperationCreate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleCreateContact(ctx, request, sc)
	})

	updateContactTool := mcp.NewTool("contact_update_contact",
		mcp.WithDescription("Update fields of an existing contact"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("contactId",
			mcp.Required(),
			mcp.Description("The ID of the contact to update"),
		),
		mcp.WithString("givenName",
			mcp.Description("First name"),
		),
		mcp.WithString("surname",
			mcp.Description("Last name"),
		),
		mcp.WithString("email",
			mcp.Description("Email address"),
		),
		mcp.WithString("mobilePhone",
			mcp.Description("Mobile phone number"),
		),
		mcp.WithString("companyName",
			mcp.Description("Company name"),
		),
		mcp.WithString("jobTitle",
			mcp.Description("Job title"),
		),
	)
	addTool(s, sc, updateContactTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleUpdateContact(ctx, request, sc)
	})

	deleteContactTool := mcp.NewTool("contact_delete_contact",
		mcp.WithDescription("Delete a contact"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("contactId",
			mcp.Required(),
			mcp.Description("The ID of the contact to delete"),
		),
	)
	addTool(s, sc, deleteContactTool, instrumentation.OperationDelete, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDeleteContact(ctx, request, sc)
	})

	return nil
}

func handleListContacts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	maxResults := 50
	if maxVal, ok := args["maxResults"].(float64); ok && maxVal > 0 {
		maxResults = int(maxVal)
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	result, err := client.ListContacts(ctx, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list contacts: %v", err)), nil
	}

	return mcp.NewToolResultText(formatContacts(result)), nil
}

func handleSearchContacts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	maxResults := 50
	if maxVal, ok := args["maxResults"].(float64); ok && maxVal > 0 {
		maxResults = int(maxVal)
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	result, err := client.SearchContacts(ctx, query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to search contacts: %v", err)), nil
	}

	return mcp.NewToolResultText(formatContacts(result)), nil
}

func handleGetContact(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	contactID, ok := args["contactId"].(string)
	if !ok || contactID == "" {
		return mcp.NewToolResultError("contactId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	contact, err := client.GetContact(ctx, contactID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get contact: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", contact.DisplayName)
	for _, addr := range contact.EmailAddresses {
		fmt.Fprintf(&sb, "Email: %s\n", addr.Address)
	}
	if contact.MobilePhone != "" {
		fmt.Fprintf(&sb, "Mobile: %s\n", contact.MobilePhone)
	}
	for _, phone := range contact.BusinessPhones {
		fmt.Fprintf(&sb, "Business: %s\n", phone)
	}
	if contact.CompanyName != "" {
		fmt.Fprintf(&sb, "Company: %s\n", contact.CompanyName)
	}
	if contact.JobTitle != "" {
		fmt.Fprintf(&sb, "Title: %s\n", contact.JobTitle)
	}
	if contact.PersonalNotes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", contact.PersonalNotes)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleCreateContact(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	givenName, ok := args["givenName"].(string)
	if !ok || givenName == "" {
		return mcp.NewToolResultError("givenName is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	created, err := client.CreateContact(ctx, contactInputFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create contact: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Contact created: %s (ID: %s)", created.DisplayName, created.ID)), nil
}

func handleUpdateContact(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	contactID, ok := args["contactId"].(string)
	if !ok || contactID == "" {
		return mcp.NewToolResultError("contactId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	updated, err := client.UpdateContact(ctx, contactID, contactInputFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update contact: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Contact updated: %s (ID: %s)", updated.DisplayName, updated.ID)), nil
}

func handleDeleteContact(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	contactID, ok := args["contactId"].(string)
	if !ok || contactID == "" {
		return mcp.NewToolResultError("contactId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.DeleteContact(ctx, contactID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete contact: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Contact %s deleted", contactID)), nil
}

func contactInputFromArgs(args map[string]interface{}) contacts.ContactInput {
	input := contacts.ContactInput{}
	if v, ok := args["givenName"].(string); ok {
		input.GivenName = v
	}
	if v, ok := args["surname"].(string); ok {
		input.Surname = v
	}
	if v, ok := args["email"].(string); ok && v != "" {
		input.EmailAddresses = []string{v}
	}
	if v, ok := args["mobilePhone"].(string); ok {
		input.MobilePhone = v
	}
	if v, ok := args["companyName"].(string); ok {
		input.CompanyName = v
	}
	if v, ok := args["jobTitle"].(string); ok {
		input.JobTitle = v
	}
	return input
}

func formatContacts(result []contacts.Contact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d contacts:\n", len(result))
	for i, c := range result {
		email := ""
		if len(c.EmailAddresses) > 0 {
			email = " <" + c.EmailAddresses[0].Address + ">"
		}
		fmt.Fprintf(&sb, "%d. %s%s (ID: %s)\n", i+1, c.DisplayName, email, c.ID)
	}
	return sb.String()
}
