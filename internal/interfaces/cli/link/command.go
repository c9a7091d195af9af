package link

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/dto"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/paymentgateway"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/application/payment/usecases"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/config"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/database"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/infrastructure/repository"
	httpRouter "github.com/swirepay/swirepay-woocommerce-plugin/internal/interfaces/http"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/constants"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/utils"
)

var (
	env        string
	configPath string
	orderFile  string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Request a payment link for an order file",
		Long: `Read an order snapshot from a YAML or JSON file, request a payment link
using the stored gateway settings and print the redirect URL.`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&orderFile, "file", "f", "", "Order snapshot file (.yaml, .yml or .json)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	req, err := ParseOrderFile(orderFile)
	if err != nil {
		return err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	return Execute(cmd.Context(), database.Get(), cfg, paymentgateway.Default(), req, cmd.OutOrStdout(), log)
}

// ParseOrderFile reads an order snapshot request. YAML files are converted
// to JSON first so both formats share the request's json tags.
func ParseOrderFile(path string) (*dto.OrderSnapshotRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read order file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse order file: %w", err)
		}
		if raw, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert order file: %w", err)
		}
	case ".json":
	default:
		return nil, fmt.Errorf("unsupported order file extension %q", filepath.Ext(path))
	}

	var req dto.OrderSnapshotRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("failed to parse order file: %w", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Execute requests one payment link and writes the redirect URL to out.
func Execute(ctx context.Context, db *gorm.DB, cfg *config.Config, gateways *paymentgateway.Registry, req *dto.OrderSnapshotRequest, out io.Writer, log logger.Interface) error {
	order, err := req.ToOrderSnapshot()
	if err != nil {
		return fmt.Errorf("invalid order: %w", err)
	}

	opts, err := httpRouter.LinkOptions(cfg)
	if err != nil {
		return err
	}

	requester, ok := gateways.Get(constants.GatewayID)
	if !ok {
		client, err := httpRouter.NewSwirepayClient(cfg, log)
		if err != nil {
			return err
		}
		if err := gateways.Register(constants.GatewayID, client); err != nil {
			return err
		}
		requester = client
	}

	settingsUC := usecases.NewGatewaySettingsUseCase(
		repository.NewSystemSettingRepository(db, log.Named("repository.setting")),
		log.Named("usecase.settings"),
	)
	settings, err := settingsUC.Load(ctx)
	if err != nil {
		return err
	}

	createUC := usecases.NewCreatePaymentLinkUseCase(
		requester,
		repository.NewPaymentLinkAttemptRepository(db, log.Named("repository.attempt")),
		log.Named("usecase.paymentlink"),
		opts,
	)
	result, err := createUC.Execute(ctx, order, settings)
	if err != nil {
		return fmt.Errorf("payment link request failed: %w", err)
	}

	_, err = fmt.Fprintln(out, result.RedirectURL)
	return err
}
