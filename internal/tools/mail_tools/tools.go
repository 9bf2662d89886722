package mail_tools

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/graphdesk/graphdesk/internal/instrumentation"
	"github.com/graphdesk/graphdesk/internal/mail"
	"github.com/graphdesk/graphdesk/internal/server"
	"github.com/graphdesk/graphdesk/internal/tools/batch"
	"github.com/graphdesk/graphdesk/internal/tools/common"
)

// clientForAccount returns the mail client for an account, creating it on
// first use. A non-nil result is returned when the account is not usable.
func clientForAccount(ctx context.Context, sc *server.ServerContext, account string) (*mail.Client, *mcp.CallToolResult) {
	if client := sc.MailClientForAccount(account); client != nil {
		return client, nil
	}

	if !sc.TokenProvider().HasTokenForAccount(account) {
		return nil, common.MissingAuthResult(account)
	}

	client, err := mail.NewClientForAccountWithProvider(ctx, account, sc.TokenProvider())
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to create mail client for account %s: %v", account, err))
	}
	sc.SetMailClientForAccount(account, client)
	return client, nil
}

// addTool registers a tool with instrumentation for the mail service.
func addTool(s *mcpserver.MCPServer, sc *server.ServerContext, tool mcp.Tool, operation string,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)) {
	s.AddTool(tool, common.InstrumentedToolHandlerWithService(tool.Name, instrumentation.ServiceMail, operation, sc, handler))
}

// RegisterMailTools registers all mail-related tools with the MCP server.
// Write operations are skipped when readOnly is set.
func RegisterMailTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listMessagesTool := mcp.NewTool("mail_list_messages",
		mcp.WithDescription("List messages in a mail folder, optionally filtered by search text or unread state"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("folder",
			mcp.Description("Folder name or ID (e.g., 'inbox', 'sentitems'). Empty lists the whole mailbox."),
		),
		mcp.WithString("query",
			mcp.Description("Free-text search expression (e.g., 'quarterly report')"),
		),
		mcp.WithBoolean("unreadOnly",
			mcp.Description("Only return unread messages (ignored when query is set)"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of results to return (default: 25)"),
		),
	)
	addTool(s, sc, listMessagesTool, instrumentation.OperationList, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListMessages(ctx, request, sc)
	})

	getMessageTool := mcp.NewTool("mail_get_message",
		mcp.WithDescription("Read a single message including its full body"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message to read"),
		),
	)
	addTool(s, sc, getMessageTool, instrumentation.OperationGet, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetMessage(ctx, request, sc)
	})

	listFoldersTool := mcp.NewTool("mail_list_folders",
		mcp.WithDescription("List the account's mail folders with item counts"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
	)
	addTool(s, sc, listFoldersTool, instrumentation.OperationList, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListFolders(ctx, request, sc)
	})

	listAttachmentsTool := mcp.NewTool("mail_list_attachments",
		mcp.WithDescription("List attachment metadata for a message"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message"),
		),
	)
	addTool(s, sc, listAttachmentsTool, instrumentation.OperationList, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleListAttachments(ctx, request, sc)
	})

	getAttachmentTool := mcp.NewTool("mail_get_attachment",
		mcp.WithDescription("Download a message attachment (content returned base64-encoded)"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message"),
		),
		mcp.WithString("attachmentId",
			mcp.Required(),
			mcp.Description("The ID of the attachment"),
		),
	)
	addTool(s, sc, getAttachmentTool, instrumentation.OperationGet, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetAttachment(ctx, request, sc)
	})

	if readOnly {
		return nil
	}

	sendMessageTool := mcp.NewTool("mail_send_message",
		mcp.WithDescription("Send a mail message"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient address (string) or array of addresses"),
		),
		mcp.WithString("cc",
			mcp.Description("Cc address (string) or array of addresses"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Message subject"),
		),
		mcp.WithString("body",
			mcp.Required(),
			mcp.Description("Message body"),
		),
		mcp.WithBoolean("html",
			mcp.Description("Treat the body as HTML (default: plain text)"),
		),
	)
	addTool(s, sc, sendMessageTool, instrumentation.OperationSend, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleSendMessage(ctx, request, sc)
	})

	moveMessagesTool := mcp.NewTool("mail_move_messages",
		mcp.WithDescription("Move one or more messages to another folder"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs to move"),
		),
		mcp.WithString("destinationFolderId",
			mcp.Required(),
			mcp.Description("The ID or well-known name of the destination folder"),
		),
	)
	addTool(s, sc, moveMessagesTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleMoveMessages(ctx, request, sc)
	})

	deleteMessagesTool := mcp.NewTool("mail_delete_messages",
		mcp.WithDescription("Delete one or more messages"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("messageIds",
			mcp.Required(),
			mcp.Description("Message ID (string) or array of message IDs to delete"),
		),
	)
	addTool(s, sc, deleteMessagesTool, instrumentation.OperationDelete, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDeleteMessages(ctx, request, sc)
	})

	markReadTool := mcp.NewTool("mail_mark_read",
		mcp.WithDescription("Mark a message as read or unread"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Microsoft accounts."),
		),
		mcp.WithString("messageId",
			mcp.Required(),
			mcp.Description("The ID of the message"),
		),
		mcp.WithBoolean("read",
			mcp.Description("Target read state (default: true)"),
		),
	)
	addTool(s, sc, markReadTool, instrumentation.OperationUpdate, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleMarkRead(ctx, request, sc)
	})

	return nil
}

func handleListMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	opts := mail.ListOptions{MaxResults: 25}
	if folder, ok := args["folder"].(string); ok {
		opts.Folder = folder
	}
	if query, ok := args["query"].(string); ok {
		opts.Query = query
	}
	if unread, ok := args["unreadOnly"].(bool); ok {
		opts.UnreadOnly = unread
	}
	if maxResults, ok := args["maxResults"].(float64); ok && maxResults > 0 {
		opts.MaxResults = int(maxResults)
	}

	messages, err := client.ListMessages(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list messages: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d messages:\n", len(messages))
	for i, m := range messages {
		state := "unread"
		if m.IsRead {
			state = "read"
		}
		from := ""
		if m.From != nil {
			from = m.From.EmailAddress.Address
		}
		fmt.Fprintf(&sb, "%d. [%s] %s (from: %s, received: %s, ID: %s)\n",
			i+1, state, m.Subject, from, m.ReceivedDateTime, m.ID)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	m, err := client.GetMessage(ctx, messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get message: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Subject: %s\n", m.Subject)
	if m.From != nil {
		fmt.Fprintf(&sb, "From: %s <%s>\n", m.From.EmailAddress.Name, m.From.EmailAddress.Address)
	}
	for _, to := range m.ToRecipients {
		fmt.Fprintf(&sb, "To: %s\n", to.EmailAddress.Address)
	}
	fmt.Fprintf(&sb, "Received: %s\n", m.ReceivedDateTime)
	if m.HasAttachments {
		sb.WriteString("Has attachments: yes\n")
	}
	sb.WriteString("\n")
	if m.Body != nil {
		sb.WriteString(m.Body.Content)
	} else {
		sb.WriteString(m.BodyPreview)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleSendMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	to, err := batch.ParseStringOrArray(args["to"], "to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cc []string
	if _, ok := args["cc"]; ok {
		cc, err = batch.ParseStringOrArray(args["cc"], "cc")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	subject, ok := args["subject"].(string)
	if !ok || subject == "" {
		return mcp.NewToolResultError("subject is required"), nil
	}
	body, ok := args["body"].(string)
	if !ok {
		return mcp.NewToolResultError("body is required"), nil
	}
	html, _ := args["html"].(bool)

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	input := mail.SendInput{
		To:       to,
		Cc:       cc,
		Subject:  subject,
		Body:     body,
		BodyHTML: html,
	}
	if err := client.SendMessage(ctx, input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to send message: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Message %q sent to %s", subject, strings.Join(to, ", "))), nil
}

func handleMoveMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	destination, ok := args["destinationFolderId"].(string)
	if !ok || destination == "" {
		return mcp.NewToolResultError("destinationFolderId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	results := batch.ProcessBatch(messageIDs, func(messageID string) (string, error) {
		moved, err := client.MoveMessage(ctx, messageID, destination)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Message moved, new ID: %s", moved.ID), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleDeleteMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	messageIDs, err := batch.ParseStringOrArray(args["messageIds"], "messageIds")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	results := batch.ProcessBatch(messageIDs, func(messageID string) (string, error) {
		if err := client.DeleteMessage(ctx, messageID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Message %s deleted", messageID), nil
	})

	return mcp.NewToolResultText(batch.FormatResults(results)), nil
}

func handleMarkRead(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	read := true
	if readVal, ok := args["read"].(bool); ok {
		read = readVal
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	if err := client.MarkRead(ctx, messageID, read); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update read state: %v", err)), nil
	}

	state := "read"
	if !read {
		state = "unread"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Message %s marked as %s", messageID, state)), nil
}

func handleListFolders(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	folders, err := client.ListFolders(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list folders: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d folders:\n", len(folders))
	for i, f := range folders {
		fmt.Fprintf(&sb, "%d. %s (%d items, %d unread, ID: %s)\n",
			i+1, f.DisplayName, f.TotalItemCount, f.UnreadItemCount, f.ID)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleListAttachments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	attachments, err := client.ListAttachments(ctx, messageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list attachments: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d attachments:\n", len(attachments))
	for i, a := range attachments {
		fmt.Fprintf(&sb, "%d. %s (%s, %d bytes, ID: %s)\n", i+1, a.Name, a.ContentType, a.Size, a.ID)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetAttachment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	messageID, ok := args["messageId"].(string)
	if !ok || messageID == "" {
		return mcp.NewToolResultError("messageId is required"), nil
	}
	attachmentID, ok := args["attachmentId"].(string)
	if !ok || attachmentID == "" {
		return mcp.NewToolResultError("attachmentId is required"), nil
	}

	client, errResult := clientForAccount(ctx, sc, account)
	if errResult != nil {
		return errResult, nil
	}

	att, err := client.GetAttachment(ctx, messageID, attachmentID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get attachment: %v", err)), nil
	}

	// Validate the payload before handing it to the agent
	if _, err := base64.StdEncoding.DecodeString(att.ContentBytes); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Attachment content is not valid base64: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\nContent-Type: %s\nSize: %d bytes\n\n", att.Name, att.ContentType, att.Size)
	sb.WriteString(att.ContentBytes)

	return mcp.NewToolResultText(sb.String()), nil
}
