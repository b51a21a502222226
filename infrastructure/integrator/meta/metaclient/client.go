package metaclient

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	metadomain "github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/domain"
	"github.com/rmonteiro89/lead-manager-api/internal/config"
)

type Client interface {
	GetCampaignDetails(token, campaignID string) (*metadomain.CampaignDetails, error)
	GetCampaignInsights(token, campaignID string, since, until time.Time, increment int) ([]metadomain.InsightRow, error)
	GetCampaignAdSets(token, campaignID string) ([]metadomain.AdSet, error)
	GetAccountInsights(token, accountID string, since, until time.Time) ([]metadomain.InsightRow, error)
}

type MetaClient struct {
	Cfg        *config.Config
	HTTPClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &MetaClient{
		Cfg:        cfg,
		HTTPClient: &http.Client{},
	}
}

// doGet executa a requisição e traduz respostas de erro do Graph API para um
// *metadomain.APIError com o código do provedor preservado.
func (c *MetaClient) doGet(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao fazer a requisição")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler o corpo da resposta")
	}

	if resp.StatusCode != http.StatusOK {
		var errResponse metadomain.ErrorResponse
		if err := json.Unmarshal(body, &errResponse); err != nil {
			return nil, errors.Errorf("meta api: http %d sem envelope de erro", resp.StatusCode)
		}

		return nil, &metadomain.APIError{
			StatusCode: resp.StatusCode,
			Details:    errResponse.Error,
		}
	}

	return body, nil
}
