package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"pontodigital/cmd/internal/contract"
	"pontodigital/cmd/internal/domain/entity"
	"pontodigital/cmd/internal/domain/policy"
	"pontodigital/cmd/internal/infrastructure/genai"
	"pontodigital/cmd/internal/timeline"
	"pontodigital/cmd/internal/utils"
	"pontodigital/cmd/internal/utils/apierror"
)

const (
	// MaxContextRecords bounds how many record summaries go into a prompt.
	MaxContextRecords = 20

	assistantTimeout = 30 * time.Second

	// FallbackAnswer replaces any failure of the model backend.
	FallbackAnswer = "Desculpe, não consegui processar sua pergunta agora. Tente novamente em alguns instantes."

	systemInstruction = "Você é um assistente de Recursos Humanos de um sistema de ponto digital brasileiro. " +
		"Responda sempre em português, de forma cordial e objetiva. Use os registros de ponto fornecidos " +
		"como contexto para responder sobre jornada, horas trabalhadas, intervalos, feriados e ajustes. " +
		"Quando a informação não estiver nos registros, diga isso claramente e oriente o colaborador a " +
		"procurar o RH. Nunca invente registros."

	summaryInstruction = "Com base nos registros de ponto, produza um JSON com os campos " +
		"\"overview\" (texto curto), \"topics\" (lista de strings) e \"faqs\" (lista de objetos " +
		"com \"question\" e \"answer\"). Responda somente com o JSON."
)

type AssistantService struct {
	Generator genai.TextGenerator
	Stores    StoreProvider
	Policy    *policy.AccessPolicy
	Validate  *validator.Validate
	Location  *time.Location
	Timeout   time.Duration
}

func NewAssistantService(
	generator genai.TextGenerator,
	stores StoreProvider,
	accessPolicy *policy.AccessPolicy,
	validate *validator.Validate,
	loc *time.Location,
) *AssistantService {
	return &AssistantService{
		Generator: generator,
		Stores:    stores,
		Policy:    accessPolicy,
		Validate:  validate,
		Location:  loc,
		Timeout:   assistantTimeout,
	}
}

// Chat answers a free-text question with the caller's recent records as
// context. Backend failures degrade to FallbackAnswer, never to an error.
func (a *AssistantService) Chat(ctx context.Context, actor *entity.Session, req *contract.ChatRequest) (*contract.ChatResponse, apierror.ErrorResponse) {
	if perr := a.Policy.Require(actor, entity.PermissionUseAssistant); perr != nil {
		return nil, perr
	}

	utils.Sanitize(req)
	if err := a.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if a.Generator == nil {
		return &contract.ChatResponse{Answer: FallbackAnswer}, nil
	}

	prompt := a.buildPrompt(ctx, actor, req.Prompt)

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	answer, err := a.Generator.Generate(ctx, systemInstruction, prompt)
	if err != nil {
		log.Errorf("assistant failed for %s: %v", actor.CompanyCode, err)
		return &contract.ChatResponse{Answer: FallbackAnswer}, nil
	}
	return &contract.ChatResponse{Answer: answer}, nil
}

// Summary asks for the structured overview (overview, topics, faqs).
func (a *AssistantService) Summary(ctx context.Context, actor *entity.Session) (*contract.SummaryResponse, apierror.ErrorResponse) {
	if perr := a.Policy.Require(actor, entity.PermissionUseAssistant); perr != nil {
		return nil, perr
	}

	fallback := &contract.SummaryResponse{
		Overview: FallbackAnswer,
		Topics:   []string{},
		FAQs:     []*contract.FAQ{},
	}

	if a.Generator == nil {
		return fallback, nil
	}

	prompt := a.buildPrompt(ctx, actor, summaryInstruction)

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	var out contract.SummaryResponse
	if err := a.Generator.GenerateJSON(ctx, systemInstruction, prompt, &out); err != nil {
		log.Errorf("assistant summary failed for %s: %v", actor.CompanyCode, err)
		return fallback, nil
	}

	if out.Topics == nil {
		out.Topics = []string{}
	}
	if out.FAQs == nil {
		out.FAQs = []*contract.FAQ{}
	}
	return &out, nil
}

func (a *AssistantService) buildPrompt(ctx context.Context, actor *entity.Session, question string) string {
	lines := a.contextLines(ctx, actor)

	var sb strings.Builder
	sb.WriteString("Usuário: ")
	sb.WriteString(actor.Name)
	sb.WriteString("\n")

	if len(lines) == 0 {
		sb.WriteString("Nenhum registro de ponto disponível.\n")
	} else {
		sb.WriteString("Registros de ponto mais recentes:\n")
		for _, l := range lines {
			sb.WriteString("- ")
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nPergunta: ")
	sb.WriteString(question)
	return sb.String()
}

// contextLines summarizes the most recent records the actor may see.
// Administrators get the whole company, everyone else only themselves.
func (a *AssistantService) contextLines(ctx context.Context, actor *entity.Session) []string {
	store, err := a.Stores.Get(ctx, actor.CompanyCode)
	if err != nil {
		log.Warnf("assistant running without records for %s: %v", actor.CompanyCode, err)
		return nil
	}

	records := store.Records()
	if !actor.Role.Permissions().Has(entity.PermissionAdministrator) {
		records = timeline.FilterByBadge(records, actor.Badge)
	}
	return timeline.Summaries(records, MaxContextRecords, a.Location)
}
