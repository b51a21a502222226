package metaclient

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"
	metadomain "github.com/rmonteiro89/lead-manager-api/infrastructure/integrator/meta/domain"
)

type ResponseAccountInsights struct {
	Data   []metadomain.InsightRow `json:"data"`
	Paging metadomain.Paging       `json:"paging"`
}

// GetAccountInsights busca as linhas diárias de insights de uma conta inteira,
// drenando todas as páginas via paging.next antes de retornar.
func (c *MetaClient) GetAccountInsights(token, accountID string, since, until time.Time) ([]metadomain.InsightRow, error) {
	baseURL := fmt.Sprintf("%s/act_%s/insights", c.Cfg.Meta.URL, accountID)

	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}", since.Format(time.DateOnly), until.Format(time.DateOnly))

	params := url.Values{}
	params.Add("fields", "account_id,campaign_id,spend,impressions,clicks,actions")
	params.Add("time_range", timeRange)
	params.Add("time_increment", "1")
	params.Add("level", "account")
	params.Add("access_token", token)

	nextURL := baseURL + "?" + params.Encode()

	rows := make([]metadomain.InsightRow, 0)
	for nextURL != "" {
		body, err := c.doGet(nextURL)
		if err != nil {
			return nil, err
		}

		var response ResponseAccountInsights
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, errors.Wrap(err, "erro ao decodificar JSON de insights da conta")
		}

		rows = append(rows, response.Data...)
		nextURL = response.Paging.Next
	}

	return rows, nil
}
